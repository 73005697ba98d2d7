package value

import "github.com/pkg/errors"

// Exception is a language-level exception. It carries the thrown value and,
// for host faults, the underlying Go error.
type Exception struct {
	Value Value
	cause error
}

// Throw returns an exception carrying v.
func Throw(v Value) *Exception {
	return &Exception{Value: v}
}

// Fault converts a host error into an exception, annotating it with context.
// An error that already is an exception is returned unchanged.
func Fault(err error, format string, args ...interface{}) *Exception {
	if err == nil {
		return nil
	}
	if ex := AsException(err); ex != nil {
		return ex
	}
	wrapped := errors.Wrapf(err, format, args...)
	return &Exception{Value: String(wrapped.Error()), cause: wrapped}
}

// AsException returns the exception in err's chain, or nil.
func AsException(err error) *Exception {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex
	}
	return nil
}

func (e *Exception) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return "uncaught exception: " + Format(e.Value)
}

// Cause returns the root host error, or nil for thrown values.
func (e *Exception) Cause() error {
	if e.cause == nil {
		return nil
	}
	return errors.Cause(e.cause)
}

func (e *Exception) Unwrap() error { return e.cause }
