package tool

import (
	"context"
)

type Provider interface {
	Tools(ctx context.Context) ([]Tool, error)
}

type Schema map[string]any

// ExecuteFn returns a string, a *Result or any JSON encodable value. A
// returned error is reported to the client as a failed tool call.
type ExecuteFn func(ctx context.Context, args map[string]any) (any, error)

type Tool struct {
	Name        string
	Description string

	Schema  Schema
	Execute ExecuteFn
}

type Result struct {
	Content []Content
}

// Content is text, or an image when Data is set.
type Content struct {
	Text string

	Data     []byte
	MimeType string
}

func (c Content) IsImage() bool {
	return len(c.Data) > 0
}

func Text(text string) *Result {
	return &Result{
		Content: []Content{
			{Text: text},
		},
	}
}
