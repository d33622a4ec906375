package question

import (
	"strings"
)

// Examples documents the accepted question formats for agents.
const Examples = `# Question formats

## Free text

` + "```xml" + `
<question type="qa">
  <title>Share your thoughts</title>
  <content>What would you change about this feature?</content>
</question>
` + "```" + `

## Single choice

` + "```xml" + `
<question type="choice">
  <title>Pick a color</title>
  <content>Which color should the button use?</content>
  <options>
    <option value="red">Red</option>
    <option value="blue">Blue</option>
    <option value="green">Green</option>
  </options>
</question>
` + "```" + `

## Notes

1. Free text questions let the user type any answer and attach images.
2. Choice questions always get an extra "Other" option so the user can type their own answer.
3. Option values must be unique and must not be "` + OtherValue + `".
4. The user may cancel; the tool then reports that no answer was obtained.
`

// Build assembles a question from prompt arguments and validates it through
// the parser. options uses the "value1:Label 1,value2:Label 2" notation;
// entries without a colon use the value as label.
func Build(kind Kind, title, body, options string) (*Question, error) {
	q := &Question{
		Kind: kind,

		Title: title,
		Body:  body,
	}

	if kind == SingleChoice {
		for _, entry := range strings.Split(options, ",") {
			value, label, _ := strings.Cut(entry, ":")

			if strings.TrimSpace(value) == "" {
				continue
			}

			q.Options = append(q.Options, Option{
				Value: strings.TrimSpace(value),
				Label: strings.TrimSpace(label),
			})
		}
	}

	return Parse(q.XML())
}
