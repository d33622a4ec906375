package ask

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/question"

	"github.com/google/go-cmp/cmp"
)

type fakeUI struct {
	err error

	rendered chan *fakeDialog
}

func newFakeUI() *fakeUI {
	return &fakeUI{
		rendered: make(chan *fakeDialog, 8),
	}
}

func (u *fakeUI) Render(q *question.Question) (Dialog, error) {
	if u.err != nil {
		return nil, u.err
	}

	d := &fakeDialog{
		question:   q,
		events:     make(chan Event, 16),
		rejections: make(chan Rejection, 16),
		closed:     make(chan struct{}),
	}

	u.rendered <- d

	return d, nil
}

type fakeDialog struct {
	question *question.Question

	events     chan Event
	rejections chan Rejection

	once   sync.Once
	closed chan struct{}
}

func (d *fakeDialog) Events() <-chan Event {
	return d.events
}

func (d *fakeDialog) Reject(r Rejection) {
	select {
	case <-d.closed:
	default:
		d.rejections <- r
	}
}

func (d *fakeDialog) Close() error {
	d.once.Do(func() {
		close(d.closed)
	})

	return nil
}

func (d *fakeDialog) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

type result struct {
	answer *Answer
	err    error
}

func askAsync(b *Bridge, q *question.Question, timeout time.Duration) <-chan result {
	ch := make(chan result, 1)

	go func() {
		answer, err := b.Ask(context.Background(), q, timeout)
		ch <- result{answer, err}
	}()

	return ch
}

func waitDialog(t *testing.T, u *fakeUI) *fakeDialog {
	t.Helper()

	select {
	case d := <-u.rendered:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("dialog was not rendered")
		return nil
	}
}

func waitResult(t *testing.T, ch <-chan result) result {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Ask did not return")
		return result{}
	}
}

func TestAskFreeText(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	if d.question != freeText {
		t.Errorf("rendered question = %+v, want %+v", d.question, freeText)
	}

	d.events <- TextChanged{Text: "hel"}
	d.events <- TextChanged{Text: "hello "}
	d.events <- Submitted{}

	r := waitResult(t, ch)

	if r.err != nil {
		t.Fatalf("Ask() error = %v", r.err)
	}

	if diff := cmp.Diff(&Answer{Text: "hello"}, r.answer); diff != "" {
		t.Errorf("Ask() mismatch (-want +got):\n%s", diff)
	}

	if !d.isClosed() {
		t.Error("dialog not closed after submit")
	}
}

func TestAskChoiceOther(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, colors, 0)
	d := waitDialog(t, u)

	d.events <- OptionSelected{Value: question.OtherValue}
	d.events <- TextChanged{Text: "blue"}
	d.events <- Submitted{}

	r := waitResult(t, ch)

	if r.err != nil {
		t.Fatalf("Ask() error = %v", r.err)
	}

	if r.answer.Text != "blue" || r.answer.SelectedValue != "" {
		t.Errorf("Ask() = %+v, want text %q without selection", r.answer, "blue")
	}
}

func TestAskTimeoutReleases(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	start := time.Now()

	ch := askAsync(b, freeText, 50*time.Millisecond)
	d := waitDialog(t, u)

	r := waitResult(t, ch)

	if !errors.Is(r.err, ErrTimedOut) {
		t.Fatalf("Ask() error = %v, want %v", r.err, ErrTimedOut)
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Ask() returned after %v", elapsed)
	}

	if !d.isClosed() {
		t.Error("dialog not closed after timeout")
	}

	// a late submit is discarded
	d.events <- TextChanged{Text: "too late"}
	d.events <- Submitted{}

	ch = askAsync(b, freeText, 0)
	next := waitDialog(t, u)

	next.events <- TextChanged{Text: "in time"}
	next.events <- Submitted{}

	r = waitResult(t, ch)

	if r.err != nil {
		t.Fatalf("second Ask() error = %v", r.err)
	}

	if r.answer.Text != "in time" {
		t.Errorf("second Ask() text = %q", r.answer.Text)
	}
}

func TestAskSubmitBeforeTimeout(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, freeText, 200*time.Millisecond)
	d := waitDialog(t, u)

	d.events <- TextChanged{Text: "quick"}
	d.events <- Submitted{}

	r := waitResult(t, ch)

	if r.err != nil {
		t.Fatalf("Ask() error = %v", r.err)
	}

	if r.answer.Text != "quick" {
		t.Errorf("Ask() text = %q, want %q", r.answer.Text, "quick")
	}

	// the expired timer must not produce a second result
	time.Sleep(300 * time.Millisecond)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected second result %+v", extra)
	default:
	}

	if !d.isClosed() {
		t.Error("dialog not closed after submit")
	}

	ch = askAsync(b, freeText, 0)
	next := waitDialog(t, u)

	next.events <- Cancelled{}

	if r := waitResult(t, ch); !errors.Is(r.err, ErrCancelled) {
		t.Fatalf("second Ask() error = %v, want %v", r.err, ErrCancelled)
	}
}

func TestCloseWhileAsking(t *testing.T) {
	u := newFakeUI()

	b := New(u)

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	b.Close()

	r := waitResult(t, ch)

	if !errors.Is(r.err, ErrCancelled) || !errors.Is(r.err, ErrLoopClosed) {
		t.Fatalf("Ask() error = %v, want %v and %v", r.err, ErrCancelled, ErrLoopClosed)
	}

	if !d.isClosed() {
		t.Error("dialog not closed when the bridge closed")
	}
}

func TestAskBusy(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	if _, err := b.Ask(context.Background(), colors, 0); !errors.Is(err, ErrBusy) {
		t.Fatalf("concurrent Ask() error = %v, want %v", err, ErrBusy)
	}

	d.events <- Cancelled{}

	r := waitResult(t, ch)

	if !errors.Is(r.err, ErrCancelled) {
		t.Fatalf("Ask() error = %v, want %v", r.err, ErrCancelled)
	}

	if r.answer != nil {
		t.Errorf("Ask() answer = %+v, want nil", r.answer)
	}
}

func TestAskRejectsUnsupportedImage(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	d.events <- ImageAttached{Data: []byte("%PDF-1.7"), MimeType: "application/pdf"}
	d.events <- Submitted{}

	select {
	case rejection := <-d.rejections:
		if diff := cmp.Diff([]int{0}, rejection.Dropped); diff != "" {
			t.Errorf("Dropped mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submission was not rejected")
	}

	if d.isClosed() {
		t.Fatal("dialog closed after rejection")
	}

	select {
	case r := <-ch:
		t.Fatalf("Ask() returned early: %+v", r)
	default:
	}

	d.events <- TextChanged{Text: "never mind"}
	d.events <- Submitted{}

	r := waitResult(t, ch)

	if r.err != nil {
		t.Fatalf("Ask() error = %v", r.err)
	}

	if len(r.answer.Images) != 0 {
		t.Errorf("Ask() images = %d, want 0", len(r.answer.Images))
	}
}

func TestAskRenderFault(t *testing.T) {
	u := newFakeUI()
	u.err = errors.New("no display")

	b := New(u)
	defer b.Close()

	_, err := b.Ask(context.Background(), freeText, time.Second)

	if !errors.Is(err, ErrUIFault) {
		t.Fatalf("Ask() error = %v, want %v", err, ErrUIFault)
	}

	var fault *UIFaultError

	if !errors.As(err, &fault) || fault.Err != u.err {
		t.Errorf("Ask() error = %v, want wrapped %v", err, u.err)
	}

	u.err = nil

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	d.events <- Cancelled{}

	if r := waitResult(t, ch); !errors.Is(r.err, ErrCancelled) {
		t.Errorf("Ask() after fault error = %v, want %v", r.err, ErrCancelled)
	}
}

func TestAskDialogVanishes(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ch := askAsync(b, freeText, 0)
	d := waitDialog(t, u)

	close(d.events)

	if r := waitResult(t, ch); !errors.Is(r.err, ErrUIFault) {
		t.Fatalf("Ask() error = %v, want %v", r.err, ErrUIFault)
	}
}

func TestAskContextCancelled(t *testing.T) {
	u := newFakeUI()

	b := New(u)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan result, 1)

	go func() {
		answer, err := b.Ask(ctx, freeText, 0)
		ch <- result{answer, err}
	}()

	d := waitDialog(t, u)
	cancel()

	r := waitResult(t, ch)

	if !errors.Is(r.err, ErrCancelled) || !errors.Is(r.err, context.Canceled) {
		t.Fatalf("Ask() error = %v, want %v and %v", r.err, ErrCancelled, context.Canceled)
	}

	if !d.isClosed() {
		t.Error("dialog not closed after cancellation")
	}
}

func TestAskNilQuestion(t *testing.T) {
	b := New(newFakeUI())
	defer b.Close()

	if _, err := b.Ask(context.Background(), nil, 0); err == nil {
		t.Fatal("Ask(nil) succeeded")
	}
}
