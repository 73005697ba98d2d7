package value

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrFutureCompleted is returned when a completed Future is completed again.
	ErrFutureCompleted = errors.New("future already completed")
	// ErrFutureBusy is returned when a second callback is registered on a
	// pending Future.
	ErrFutureBusy = errors.New("future already has a pending callback")
)

// Future is a single-resolution placeholder for an asynchronous result.
//
// SetResult and SetError are mutually exclusive and succeed at most once.
// A callback registered after completion runs immediately on the caller's
// goroutine; one registered before completion runs exactly once on the
// goroutine that completes the Future.
type Future struct {
	mu       sync.Mutex
	done     bool
	result   Value
	err      error
	callback func(Value, error)
}

func (*Future) Kind() Kind { return KindFuture }

// NewFuture returns a pending Future.
func NewFuture() *Future {
	return &Future{}
}

// Resolved returns a Future already completed with v.
func Resolved(v Value) *Future {
	return &Future{done: true, result: v}
}

// SetResult completes the Future with v.
func (f *Future) SetResult(v Value) error {
	return f.complete(v, nil)
}

// SetError completes the Future with err.
func (f *Future) SetError(err error) error {
	if err == nil {
		err = errors.New("future failed with nil error")
	}
	return f.complete(nil, err)
}

func (f *Future) complete(v Value, err error) error {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return ErrFutureCompleted
	}
	f.done = true
	f.result = v
	f.err = err
	cb := f.callback
	f.callback = nil
	f.mu.Unlock()
	if cb != nil {
		cb(v, err)
	}
	return nil
}

// OnComplete registers cb to receive the outcome.
func (f *Future) OnComplete(cb func(Value, error)) error {
	if cb == nil {
		return nil
	}
	f.mu.Lock()
	if f.done {
		v, err := f.result, f.err
		f.mu.Unlock()
		cb(v, err)
		return nil
	}
	if f.callback != nil {
		f.mu.Unlock()
		return ErrFutureBusy
	}
	f.callback = cb
	f.mu.Unlock()
	return nil
}

// Done reports whether the Future has completed.
func (f *Future) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Snapshot returns the outcome and whether the Future has completed.
func (f *Future) Snapshot() (Value, error, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err, f.done
}

// Go runs op on a new goroutine and returns a Future completed exactly once
// with its outcome. A panic in op completes the Future with an error.
func Go(op func() (Value, error)) *Future {
	f := NewFuture()
	go func() {
		var (
			v   Value
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("async operation panicked: %v", r)
				v = nil
			}
			if err != nil {
				_ = f.SetError(err)
				return
			}
			_ = f.SetResult(v)
		}()
		v, err = op()
	}()
	return f
}
