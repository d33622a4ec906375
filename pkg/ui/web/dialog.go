package web

import (
	"slices"
	"sync"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/question"
)

type dialog struct {
	id       string
	question *question.Question

	events  chan ask.Event
	replies chan ask.Rejection

	// sendMu keeps events open while a handler is sending.
	sendMu sync.RWMutex

	// postMu serializes form posts; each post waits for its own reply.
	postMu sync.Mutex

	once    sync.Once
	closed  chan struct{}
	onClose func(*dialog)

	mu          sync.Mutex
	text        string
	selected    string
	attachments []string
	err         string
}

func newDialog(id string, q *question.Question, onClose func(*dialog)) *dialog {
	d := &dialog{
		id:       id,
		question: q,

		events:  make(chan ask.Event, 16),
		replies: make(chan ask.Rejection, 1),

		closed:  make(chan struct{}),
		onClose: onClose,
	}

	if q.IsChoice() && len(q.Options) > 0 {
		d.selected = q.Options[0].Value
	}

	return d
}

func (d *dialog) Events() <-chan ask.Event {
	return d.events
}

func (d *dialog) Reject(r ask.Rejection) {
	if d.isClosed() {
		return
	}

	d.mu.Lock()

	d.err = r.Message

	for i := len(r.Dropped) - 1; i >= 0; i-- {
		if idx := r.Dropped[i]; idx >= 0 && idx < len(d.attachments) {
			d.attachments = slices.Delete(d.attachments, idx, idx+1)
		}
	}

	d.mu.Unlock()

	select {
	case d.replies <- r:
	default:
	}
}

func (d *dialog) Close() error {
	d.once.Do(func() {
		close(d.closed)

		d.sendMu.Lock()
		close(d.events)
		d.sendMu.Unlock()

		if d.onClose != nil {
			d.onClose(d)
		}
	})

	return nil
}

func (d *dialog) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

func (d *dialog) send(e ask.Event) bool {
	d.sendMu.RLock()
	defer d.sendMu.RUnlock()

	if d.isClosed() {
		return false
	}

	select {
	case d.events <- e:
		return true
	case <-d.closed:
		return false
	}
}

// drain drops a reply left behind by a client that went away.
func (d *dialog) drain() {
	select {
	case <-d.replies:
	default:
	}
}

type pageState struct {
	Text        string
	Selected    string
	Attachments []string
	Error       string
}

func (d *dialog) state() pageState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return pageState{
		Text:        d.text,
		Selected:    d.selected,
		Attachments: slices.Clone(d.attachments),
		Error:       d.err,
	}
}
