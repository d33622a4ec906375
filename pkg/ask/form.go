package ask

import (
	"fmt"
	"strings"

	"github.com/adrianliechti/wingman-ask/pkg/question"
)

const (
	DefaultMaxImageBytes = 5 << 20
	DefaultMaxImages     = 5
)

type Limits struct {
	MaxImageBytes int
	MaxImages     int
}

func (l Limits) withDefaults() Limits {
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = DefaultMaxImageBytes
	}

	if l.MaxImages <= 0 {
		l.MaxImages = DefaultMaxImages
	}

	return l
}

// form accumulates the state of one dialog and turns it into an Answer on submit.
type form struct {
	question *question.Question
	limits   Limits

	text     string
	selected string

	images []ImageAttachment
}

func newForm(q *question.Question, limits Limits) *form {
	return &form{
		question: q,
		limits:   limits.withDefaults(),
	}
}

func (f *form) apply(e Event) {
	switch e := e.(type) {
	case TextChanged:
		f.text = e.Text

	case OptionSelected:
		f.selected = e.Value

	case ImageAttached:
		f.images = append(f.images, ImageAttachment{
			MimeType: e.MimeType,
			Data:     e.Data,
		})
	}
}

// submit either completes the form or explains why it stays open.
func (f *form) submit() (*Answer, *Rejection) {
	if r := f.checkImages(); r != nil {
		return nil, r
	}

	text := strings.TrimSpace(f.text)

	answer := &Answer{
		Images: f.images,
	}

	if !f.question.IsChoice() {
		if text == "" && len(f.images) == 0 {
			return nil, &Rejection{Message: "Please enter an answer or attach an image."}
		}

		answer.Text = text
		return answer, nil
	}

	selected := f.selected

	if selected == "" && text != "" {
		selected = question.OtherValue
	}

	if selected == "" {
		return nil, &Rejection{Message: "Please choose an option."}
	}

	option, ok := f.question.Option(selected)

	if !ok {
		return nil, &Rejection{Message: fmt.Sprintf("Unknown option %q.", selected)}
	}

	if option.IsOther() {
		if text == "" {
			return nil, &Rejection{Message: "Please type your own answer."}
		}

		answer.Text = text
		return answer, nil
	}

	answer.SelectedValue = option.Value
	answer.Text = option.Label

	if text != "" {
		answer.Text += "\n" + text
	}

	return answer, nil
}

// checkImages drops attachments that are not acceptable and reports them.
func (f *form) checkImages() *Rejection {
	var kept []ImageAttachment

	var dropped []int
	var reasons []string

	for i, img := range f.images {
		mimeType, ok := NormalizeMimeType(img.MimeType)

		switch {
		case !ok:
			reasons = append(reasons, fmt.Sprintf("image %d: unsupported type %q (use png, jpeg, gif or bmp)", i+1, img.MimeType))

		case len(img.Data) == 0:
			reasons = append(reasons, fmt.Sprintf("image %d: empty file", i+1))

		case len(img.Data) > f.limits.MaxImageBytes:
			reasons = append(reasons, fmt.Sprintf("image %d: larger than %d bytes", i+1, f.limits.MaxImageBytes))

		case len(kept) >= f.limits.MaxImages:
			reasons = append(reasons, fmt.Sprintf("image %d: at most %d images allowed", i+1, f.limits.MaxImages))

		default:
			img.MimeType = mimeType
			kept = append(kept, img)
			continue
		}

		dropped = append(dropped, i)
	}

	f.images = kept

	if len(dropped) == 0 {
		return nil
	}

	return &Rejection{
		Message: "Removed attachments: " + strings.Join(reasons, "; "),
		Dropped: dropped,
	}
}
