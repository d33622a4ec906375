package ask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adrianliechti/wingman-ask/pkg/question"

	"github.com/google/uuid"
)

const DefaultCloseTimeout = 5 * time.Second

// Bridge shows one question at a time through a UI capability and hands the
// answer back to the asking goroutine.
type Bridge struct {
	ui   UI
	loop *Loop

	limits       Limits
	closeTimeout time.Duration

	logger *slog.Logger

	mu      sync.Mutex
	pending *request
}

type Option func(*Bridge)

func WithLimits(limits Limits) Option {
	return func(b *Bridge) {
		b.limits = limits
	}
}

func WithCloseTimeout(timeout time.Duration) Option {
	return func(b *Bridge) {
		b.closeTimeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

func New(ui UI, options ...Option) *Bridge {
	b := &Bridge{
		ui:   ui,
		loop: NewLoop(),

		closeTimeout: DefaultCloseTimeout,

		logger: slog.Default(),
	}

	for _, option := range options {
		option(b)
	}

	b.limits = b.limits.withDefaults()

	return b
}

// Close cancels a pending question, closes its dialog and stops the UI loop.
func (b *Bridge) Close() {
	b.mu.Lock()
	r := b.pending
	b.mu.Unlock()

	if r != nil {
		r.complete(outcome{err: fmt.Errorf("%w: %w", ErrCancelled, ErrLoopClosed)})
		r.cancel()

		b.loop.Post(func() { b.closeDialog(r) })
	}

	b.loop.Close()
}

type request struct {
	id       string
	question *question.Question

	// done carries the single outcome; once guards the only send.
	done chan outcome
	once sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	// dialog is only accessed on the UI loop.
	dialog Dialog
}

type outcome struct {
	answer *Answer
	err    error
}

func (r *request) complete(o outcome) bool {
	won := false

	r.once.Do(func() {
		r.done <- o
		won = true
	})

	return won
}

// Ask shows q and waits until the human submits or cancels, timeout elapses
// or ctx is done. A timeout of zero waits without limit.
func (b *Bridge) Ask(ctx context.Context, q *question.Question, timeout time.Duration) (*Answer, error) {
	if q == nil {
		return nil, errors.New("ask: no question")
	}

	r, err := b.acquire(q)

	if err != nil {
		return nil, err
	}

	defer b.release(r)

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := b.logger.With("id", r.id)
	logger.Info("question opened", "kind", q.Kind, "title", q.Title)

	if !b.loop.Post(func() { b.show(r) }) {
		return nil, &UIFaultError{Err: ErrLoopClosed}
	}

	var o outcome

	select {
	case o = <-r.done:
	case <-ctx.Done():
		if r.complete(outcome{err: contextError(ctx)}) {
			logger.Info("question abandoned", "error", ctx.Err())
		}

		// exactly one outcome is ever sent, whichever path completed first
		o = <-r.done
	}

	switch {
	case o.err == nil:
		logger.Info("question answered", "images", len(o.answer.Images), "selected", o.answer.SelectedValue)
	case errors.Is(o.err, ErrUIFault):
		logger.Error("question failed", "error", o.err)
	default:
		logger.Info("question closed without answer", "reason", o.err)
	}

	return o.answer, o.err
}

func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimedOut
	}

	return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
}

func (b *Bridge) acquire(q *question.Question) (*request, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending != nil {
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &request{
		id:       uuid.NewString(),
		question: q,

		done: make(chan outcome, 1),

		ctx:    ctx,
		cancel: cancel,
	}

	b.pending = r

	return r, nil
}

// release closes the dialog on the UI loop and frees the slot. It runs on
// every exit path of Ask.
func (b *Bridge) release(r *request) {
	r.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), b.closeTimeout)
	defer cancel()

	// once the loop is closed, Close has already drained the dialog
	err := b.loop.Do(ctx, func() { b.closeDialog(r) })

	if errors.Is(err, context.DeadlineExceeded) {
		b.logger.Warn("dialog did not close in time", "id", r.id, "timeout", b.closeTimeout)
	}

	b.mu.Lock()

	if b.pending == r {
		b.pending = nil
	}

	b.mu.Unlock()
}

// closeDialog runs on the UI loop.
func (b *Bridge) closeDialog(r *request) {
	if r.dialog == nil {
		return
	}

	if err := r.dialog.Close(); err != nil {
		b.logger.Warn("failed to close dialog", "id", r.id, "error", err)
	}

	r.dialog = nil
}

// show runs on the UI loop.
func (b *Bridge) show(r *request) {
	if r.ctx.Err() != nil {
		return
	}

	dialog, err := b.render(r.question)

	if err != nil {
		r.complete(outcome{err: &UIFaultError{Err: err}})
		return
	}

	r.dialog = dialog

	go b.session(r, dialog)
}

func (b *Bridge) render(q *question.Question) (dialog Dialog, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render panicked: %v", p)
		}
	}()

	return b.ui.Render(q)
}

// session feeds dialog events into a form until the question is settled.
func (b *Bridge) session(r *request, dialog Dialog) {
	f := newForm(r.question, b.limits)

	events := dialog.Events()

	for {
		select {
		case <-r.ctx.Done():
			return

		case e, ok := <-events:
			if !ok {
				r.complete(outcome{err: &UIFaultError{Err: errors.New("dialog closed unexpectedly")}})
				return
			}

			switch e.(type) {
			case Submitted:
				answer, rejection := f.submit()

				if rejection != nil {
					b.logger.Debug("submission rejected", "id", r.id, "reason", rejection.Message)

					reject := *rejection
					b.loop.Post(func() { dialog.Reject(reject) })

					continue
				}

				r.complete(outcome{answer: answer})
				return

			case Cancelled:
				r.complete(outcome{err: ErrCancelled})
				return

			default:
				f.apply(e)
			}
		}
	}
}
