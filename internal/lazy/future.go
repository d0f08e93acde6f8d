package lazy

import (
	"context"
	"runtime/debug"
	"sync"
)

// Future is the single result of an asynchronous call.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result *Result
	err    error
}

func newFuture() *Future { return &Future{done: make(chan struct{})} }

// NewFuture runs fn on its own goroutine and returns the Future of its
// result. A panic in fn fails the Future with a *PanicError.
func NewFuture(fn func() (*Result, error)) *Future {
	f := newFuture()
	go func() {
		var (
			res *Result
			err error
		)
		defer func() {
			if v := recover(); v != nil {
				res, err = nil, &PanicError{Value: v, Stack: debug.Stack()}
			}
			f.complete(res, err)
		}()
		res, err = fn()
	}()
	return f
}

// CompletedFuture returns a Future that has already settled.
func CompletedFuture(res *Result, err error) *Future {
	f := newFuture()
	f.complete(res, err)
	return f
}

func (f *Future) complete(res *Result, err error) {
	f.once.Do(func() {
		f.result, f.err = res, err
		close(f.done)
	})
}

// Done is closed once the Future has settled.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the Future settles or ctx is done. A settled Future
// wins over a concurrently cancelled ctx.
func (f *Future) Await(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
