package value

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture()
	if f.Done() {
		t.Fatal("new future is done")
	}
	if err := f.SetResult(Real(1)); err != nil {
		t.Fatal(err)
	}
	if err := f.SetResult(Real(2)); err != ErrFutureCompleted {
		t.Errorf("second SetResult = %v", err)
	}
	if err := f.SetError(errors.New("late")); err != ErrFutureCompleted {
		t.Errorf("SetError after SetResult = %v", err)
	}
	v, err, done := f.Snapshot()
	if !done || err != nil || !Identical(v, Real(1)) {
		t.Errorf("Snapshot = %s, %v, %v", Format(v), err, done)
	}
}

func TestFutureCallback(t *testing.T) {
	f := NewFuture()
	var got []Value
	if err := f.OnComplete(func(v Value, err error) { got = append(got, v) }); err != nil {
		t.Fatal(err)
	}
	if err := f.OnComplete(func(Value, error) {}); err != ErrFutureBusy {
		t.Errorf("second pending callback = %v", err)
	}
	_ = f.SetResult(String("x"))
	_ = f.SetResult(String("y"))
	if len(got) != 1 || !Identical(got[0], String("x")) {
		t.Errorf("callback saw %v", got)
	}

	// After completion the callback runs synchronously.
	ran := false
	_ = f.OnComplete(func(Value, error) { ran = true })
	if !ran {
		t.Error("callback registered after completion did not run")
	}
}

func TestFutureNilError(t *testing.T) {
	f := NewFuture()
	_ = f.SetError(nil)
	if _, err, _ := f.Snapshot(); err == nil {
		t.Error("SetError(nil) completed without an error")
	}
}

func TestGo(t *testing.T) {
	wait := func(f *Future) (Value, error) {
		var wg sync.WaitGroup
		var (
			v   Value
			err error
		)
		wg.Add(1)
		_ = f.OnComplete(func(rv Value, rerr error) {
			v, err = rv, rerr
			wg.Done()
		})
		wg.Wait()
		return v, err
	}

	v, err := wait(Go(func() (Value, error) { return Real(7), nil }))
	if err != nil || !Identical(v, Real(7)) {
		t.Errorf("Go result = %s, %v", Format(v), err)
	}

	_, err = wait(Go(func() (Value, error) { panic("kaboom") }))
	if err == nil || err.Error() != "async operation panicked: kaboom" {
		t.Errorf("panic err = %v", err)
	}

	root := errors.New("offline")
	_, err = wait(Go(func() (Value, error) { return nil, root }))
	if err != root {
		t.Errorf("err = %v, want %v", err, root)
	}
}
