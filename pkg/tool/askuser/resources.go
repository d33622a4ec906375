package askuser

import (
	"context"
	"errors"
	"fmt"

	"github.com/adrianliechti/wingman-ask/pkg/prompt"
	"github.com/adrianliechti/wingman-ask/pkg/question"
	"github.com/adrianliechti/wingman-ask/pkg/resource"
)

func (p *Provider) Resources(ctx context.Context) ([]resource.Resource, error) {
	return []resource.Resource{
		{
			URI: ExamplesURI,

			Name:        "Question formats",
			Description: "Examples of the XML accepted by " + ToolName,

			ContentType: "text/markdown",

			Content: func(ctx context.Context) ([]byte, error) {
				return []byte(question.Examples), nil
			},
		},
	}, nil
}

func (p *Provider) Prompts(ctx context.Context) ([]prompt.Prompt, error) {
	return []prompt.Prompt{
		{
			Name:        PromptName,
			Description: "Create the XML for a question to pass to " + ToolName,

			Arguments: []prompt.Argument{
				{Name: "question_type", Description: "qa or choice", Required: true},
				{Name: "title", Description: "question title", Required: true},
				{Name: "content", Description: "question details"},
				{Name: "options", Description: "choice options as \"value1:Label 1,value2:Label 2\""},
			},

			Render: p.renderPrompt,
		},
	}, nil
}

func (p *Provider) renderPrompt(ctx context.Context, args map[string]string) (string, error) {
	kind := question.Kind(args["question_type"])

	if kind != question.FreeText && kind != question.SingleChoice {
		return "", errors.New("question_type must be \"qa\" or \"choice\"")
	}

	q, err := question.Build(kind, args["title"], args["content"], args["options"])

	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Call %s with the following question_xml:\n\n%s", ToolName, q.XML()), nil
}
