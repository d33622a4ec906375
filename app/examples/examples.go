package examples

import (
	"io"

	"github.com/adrianliechti/wingman-ask/pkg/markdown"
	"github.com/adrianliechti/wingman-ask/pkg/question"
)

func Run(w io.Writer) error {
	markdown.Render(w, question.Examples)
	return nil
}
