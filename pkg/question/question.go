package question

import (
	"strings"
)

type Kind string

const (
	FreeText     Kind = "qa"
	SingleChoice Kind = "choice"
)

// OtherValue is the reserved value of the option appended to every choice question.
const OtherValue = "__other__"

const OtherLabel = "Other (type my own answer)"

type Question struct {
	Kind Kind

	Title string
	Body  string

	Options []Option
}

type Option struct {
	Value string
	Label string
}

func (o Option) IsOther() bool {
	return o.Value == OtherValue
}

func (q *Question) IsChoice() bool {
	return q.Kind == SingleChoice
}

// Option returns the option with the given value, including the synthetic other option.
func (q *Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}

	return Option{}, false
}

// Predefined returns the caller supplied options without the synthetic other option.
func (q *Question) Predefined() []Option {
	var result []Option

	for _, o := range q.Options {
		if o.IsOther() {
			continue
		}

		result = append(result, o)
	}

	return result
}

// WithOther returns a copy of options with the synthetic other option appended.
func WithOther(options []Option) []Option {
	result := make([]Option, 0, len(options)+1)
	result = append(result, options...)

	return append(result, Option{
		Value: OtherValue,
		Label: OtherLabel,
	})
}

// XML renders the question in the schema accepted by Parse.
func (q *Question) XML() string {
	var b strings.Builder

	b.WriteString(`<question type="` + escape(string(q.Kind)) + `">` + "\n")
	b.WriteString("  <title>" + escape(q.Title) + "</title>\n")
	b.WriteString("  <content>" + escape(q.Body) + "</content>\n")

	if q.IsChoice() {
		b.WriteString("  <options>\n")

		for _, o := range q.Predefined() {
			b.WriteString(`    <option value="` + escape(o.Value) + `">` + escape(o.Label) + "</option>\n")
		}

		b.WriteString("  </options>\n")
	}

	b.WriteString("</question>\n")

	return b.String()
}
