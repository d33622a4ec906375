package ask

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsInOrder(t *testing.T) {
	l := NewLoop()

	var mu sync.Mutex
	var got []int

	for i := 0; i < 100; i++ {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	l.Close()

	mu.Lock()
	defer mu.Unlock()

	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}

	if len(got) != 100 {
		t.Errorf("ran %d functions, want 100", len(got))
	}
}

func TestLoopSurvivesPanic(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	l.Post(func() { panic("boom") })

	ran := false

	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if !ran {
		t.Error("function after panic did not run")
	}
}

func TestLoopDoHonorsContext(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	release := make(chan struct{})
	l.Post(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Do(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want %v", err, context.DeadlineExceeded)
	}

	close(release)
}

func TestLoopClosed(t *testing.T) {
	l := NewLoop()
	l.Close()

	if l.Post(func() {}) {
		t.Error("Post() after Close() accepted")
	}

	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("Do() error = %v, want %v", err, ErrLoopClosed)
	}
}
