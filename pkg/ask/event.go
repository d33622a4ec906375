package ask

import (
	"github.com/adrianliechti/wingman-ask/pkg/question"
)

// UI renders questions. Render is only ever called from the bridge's UI loop
// and must not block beyond acquiring the dialog.
type UI interface {
	Render(q *question.Question) (Dialog, error)
}

// Dialog is an open modal. Reject and Close are called from the UI loop;
// Reject after Close must be a no-op. Events must be closed once the dialog
// is gone.
type Dialog interface {
	Events() <-chan Event

	Reject(r Rejection)
	Close() error
}

// Rejection keeps the dialog open with an inline error. Dropped lists the
// indexes of image attachments, in attach order, that were removed.
type Rejection struct {
	Message string
	Dropped []int
}

type Event interface {
	isEvent()
}

type TextChanged struct {
	Text string
}

type OptionSelected struct {
	Value string
}

type ImageAttached struct {
	Data     []byte
	MimeType string
}

type Submitted struct{}

type Cancelled struct{}

func (TextChanged) isEvent()    {}
func (OptionSelected) isEvent() {}
func (ImageAttached) isEvent()  {}
func (Submitted) isEvent()      {}
func (Cancelled) isEvent()      {}
