package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

// chainedComparison implements the standard Scheme multi-argument
// comparison contract: (< a b c) is true iff a<b and b<c.
func chainedComparison(name string, args []value.Value, ok func(cmp int) bool) (value.Value, error) {
	if len(args) < 2 {
		return nil, xerrors.Eval("%s: expected at least 2 arguments", name)
	}
	prev, err := asInteger(name, args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := asInteger(name, a)
		if err != nil {
			return nil, err
		}
		if !ok(prev.Cmp(n.Int)) {
			return value.False, nil
		}
		prev = n
	}
	return value.True, nil
}

func (r *registry) installComparison() {
	r.define("<", func(args []value.Value) (value.Value, error) {
		return chainedComparison("<", args, func(c int) bool { return c < 0 })
	})
	r.define(">", func(args []value.Value) (value.Value, error) {
		return chainedComparison(">", args, func(c int) bool { return c > 0 })
	})
	r.define("<=", func(args []value.Value) (value.Value, error) {
		return chainedComparison("<=", args, func(c int) bool { return c <= 0 })
	})
	r.define(">=", func(args []value.Value) (value.Value, error) {
		return chainedComparison(">=", args, func(c int) bool { return c >= 0 })
	})
	r.define("=", func(args []value.Value) (value.Value, error) {
		return chainedComparison("=", args, func(c int) bool { return c == 0 })
	})
}
