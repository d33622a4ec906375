package resource

import (
	"context"
)

type Provider interface {
	Resources(ctx context.Context) ([]Resource, error)
}

type ContentFn func(ctx context.Context) ([]byte, error)

type Resource struct {
	URI string

	Name        string
	Description string

	Content     ContentFn
	ContentType string
}
