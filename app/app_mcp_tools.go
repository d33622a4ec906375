package app

import (
	"context"

	"github.com/adrianliechti/wingman-ask/pkg/prompt"
	"github.com/adrianliechti/wingman-ask/pkg/tool"
)

func (a *App) Tools(ctx context.Context) ([]tool.Tool, error) {
	return a.Provider.Tools(ctx)
}

func (a *App) Prompts(ctx context.Context) ([]prompt.Prompt, error) {
	return a.Provider.Prompts(ctx)
}
