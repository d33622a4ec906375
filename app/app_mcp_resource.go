package app

import (
	"context"

	"github.com/adrianliechti/wingman-ask/pkg/resource"
)

func (a *App) Resources(ctx context.Context) ([]resource.Resource, error) {
	return a.Provider.Resources(ctx)
}
