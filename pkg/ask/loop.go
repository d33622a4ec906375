package ask

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
)

// Loop runs functions one at a time on a single goroutine locked to its OS
// thread. It is the only place UI capabilities are touched from.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	go l.run()

	return l
}

// Post queues fn without waiting. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()

	if l.closed {
		l.mu.Unlock()
		return false
	}

	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	l.notify()

	return true
}

// Do queues fn and waits until it ran or ctx is done.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})

	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close runs the remaining queue and stops the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.notify()

	<-l.done
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer close(l.done)

	for {
		l.mu.Lock()
		queue := l.queue
		closed := l.closed
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range queue {
			l.call(fn)
		}

		if len(queue) > 0 {
			continue
		}

		if closed {
			return
		}

		<-l.wake
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ui loop recovered from panic", "panic", r)
		}
	}()

	fn()
}
