package askuser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/prompt"
	"github.com/adrianliechti/wingman-ask/pkg/question"
	"github.com/adrianliechti/wingman-ask/pkg/resource"
	"github.com/adrianliechti/wingman-ask/pkg/tool"
)

const (
	ToolName     = "ask_user_question"
	ExamplesURI  = "examples://question-formats"
	PromptName   = "create_question"
	MaxTimeout   = 24 * time.Hour
	noAnswerText = "No answer was obtained."
)

var (
	_ tool.Provider     = (*Provider)(nil)
	_ resource.Provider = (*Provider)(nil)
	_ prompt.Provider   = (*Provider)(nil)
)

type Asker interface {
	Ask(ctx context.Context, q *question.Question, timeout time.Duration) (*ask.Answer, error)
}

type Provider struct {
	asker  Asker
	parser *question.Parser

	timeout time.Duration
}

type Option func(*Provider)

func WithParser(parser *question.Parser) Option {
	return func(p *Provider) {
		p.parser = parser
	}
}

// WithTimeout sets the timeout used when the caller passes none. Zero waits
// until the user responds.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

func New(asker Asker, options ...Option) *Provider {
	p := &Provider{
		asker:  asker,
		parser: &question.Parser{},
	}

	for _, option := range options {
		option(p)
	}

	return p
}

func (p *Provider) Tools(ctx context.Context) ([]tool.Tool, error) {
	return []tool.Tool{
		{
			Name: ToolName,
			Description: "Ask the user a question and wait for the answer. " +
				"Supports free text questions (type=\"qa\") and single choice questions (type=\"choice\"). " +
				"Choice questions always offer an extra option for a custom answer. " +
				"The user may attach images, which are returned as image content. " +
				"See the " + ExamplesURI + " resource for the XML format.",

			Schema: tool.Schema{
				"type": "object",

				"properties": map[string]any{
					"question_xml": map[string]any{
						"type":        "string",
						"description": "the question as XML, e.g. <question type=\"qa\"><title>Title</title><content>Details</content></question>",
					},

					"timeout_seconds": map[string]any{
						"type":        "integer",
						"description": "optional number of seconds to wait for an answer",
						"minimum":     1,
					},
				},

				"required": []string{"question_xml"},
			},

			Execute: p.execute,
		},
	}, nil
}

func (p *Provider) execute(ctx context.Context, args map[string]any) (any, error) {
	raw, _ := args["question_xml"].(string)

	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("question_xml is required")
	}

	q, err := p.parser.Parse(raw)

	if err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}

	timeout, err := p.parseTimeout(args["timeout_seconds"])

	if err != nil {
		return nil, err
	}

	answer, err := p.asker.Ask(ctx, q, timeout)

	switch {
	case errors.Is(err, ask.ErrCancelled):
		return tool.Text("The user cancelled the question. " + noAnswerText), nil

	case errors.Is(err, ask.ErrTimedOut):
		if timeout <= 0 {
			return tool.Text("The user did not answer in time. " + noAnswerText), nil
		}

		return tool.Text("The user did not answer within " + timeout.String() + ". " + noAnswerText), nil

	case errors.Is(err, ask.ErrBusy):
		return nil, errors.New("another question is already waiting for the user; ask again once it is answered")

	case err != nil:
		return nil, err
	}

	return Result(q, answer), nil
}

func (p *Provider) parseTimeout(val any) (time.Duration, error) {
	if val == nil {
		return p.timeout, nil
	}

	var seconds float64

	switch v := val.(type) {
	case float64:
		seconds = v
	case int:
		seconds = float64(v)
	case json.Number:
		f, err := v.Float64()

		if err != nil {
			return 0, fmt.Errorf("timeout_seconds: %w", err)
		}

		seconds = f
	case string:
		f, err := strconv.ParseFloat(v, 64)

		if err != nil {
			return 0, fmt.Errorf("timeout_seconds: %w", err)
		}

		seconds = f
	default:
		return 0, fmt.Errorf("timeout_seconds: unexpected type %T", val)
	}

	if seconds <= 0 {
		return 0, errors.New("timeout_seconds must be positive")
	}

	timeout := time.Duration(seconds * float64(time.Second))

	return min(timeout, MaxTimeout), nil
}

// Result converts an answer into tool content: one text block followed by
// one image block per attachment.
func Result(q *question.Question, answer *ask.Answer) *tool.Result {
	var text strings.Builder

	text.WriteString("User answer: ")

	if answer.Text != "" {
		text.WriteString(answer.Text)
	} else {
		text.WriteString("(no text)")
	}

	if answer.SelectedValue != "" {
		text.WriteString("\nSelected option: " + answer.SelectedValue)
	}

	if q.IsChoice() && answer.SelectedValue == "" {
		text.WriteString("\nThe user chose to type their own answer.")
	}

	if n := len(answer.Images); n > 0 {
		text.WriteString("\nAttached images: " + strconv.Itoa(n))
	}

	result := &tool.Result{
		Content: []tool.Content{
			{Text: text.String()},
		},
	}

	for _, image := range answer.Images {
		result.Content = append(result.Content, tool.Content{
			Data:     image.Data,
			MimeType: image.MimeType,
		})
	}

	return result
}
