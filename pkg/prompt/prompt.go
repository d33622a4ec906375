package prompt

import (
	"context"
)

type Provider interface {
	Prompts(ctx context.Context) ([]Prompt, error)
}

type RenderFn func(ctx context.Context, args map[string]string) (string, error)

type Argument struct {
	Name        string
	Description string

	Required bool
}

// Prompt renders to a single user message.
type Prompt struct {
	Name        string
	Description string

	Arguments []Argument
	Render    RenderFn
}
