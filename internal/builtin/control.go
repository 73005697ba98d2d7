package builtin

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/value"
)

func registerControl(r *registry) {
	r.def("throw", 1, []string{"value"}, func(args []value.Value) (value.Value, error) {
		return nil, value.Throw(args[0])
	})

	r.def("catch", 1, []string{"f"}, func(args []value.Value) (value.Value, error) {
		return Catch(args[0])
	})

	r.def("typeof", 1, []string{"x"}, func(args []value.Value) (value.Value, error) {
		return value.String(value.KindOf(args[0]).String()), nil
	})

	r.def("sleep", 1, []string{"ms"}, func(args []value.Value) (value.Value, error) {
		ms, ok := value.AsReal(args[0])
		if !ok || ms < 0 {
			return nil, nil
		}
		d := time.Duration(ms * float64(time.Millisecond))
		v := args[0]
		return value.Go(func() (value.Value, error) {
			time.Sleep(d)
			return v, nil
		}), nil
	})

	r.def("resolve", 1, []string{"value"}, func(args []value.Value) (value.Value, error) {
		if f, ok := args[0].(*value.Future); ok {
			return f, nil
		}
		return value.Resolved(args[0]), nil
	})
}

// Catch calls f with no arguments and reports the outcome as a map
// {value, error}. Exceptions and host faults are caught; cancellation is
// not.
func Catch(f value.Value) (value.Value, error) {
	out := value.NewMap()
	v, err := Call(f)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		ex := value.Fault(err, "catch")
		out.Set("value", nil)
		out.Set("error", ex.Value)
		return out, nil
	}
	out.Set("value", v)
	out.Set("error", nil)
	return out, nil
}
