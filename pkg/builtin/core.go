package builtin

import (
	"os"

	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

func (r *registry) installCore() {
	r.define("not", func(args []value.Value) (value.Value, error) {
		v, err := arity1("not", args)
		if err != nil {
			return nil, err
		}
		return boolOf(!value.IsTruthy(v)), nil
	})

	r.define("eq?", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("eq?: expected exactly 2 arguments, got %d", len(args))
		}
		return boolOf(eq(args[0], args[1])), nil
	})

	r.define("error", func(args []value.Value) (value.Value, error) {
		message := "error"
		if len(args) > 0 {
			if s, ok := args[0].(value.String); ok {
				message = string(s)
			}
		}
		payload := make([]any, len(args))
		for i, a := range args {
			payload[i] = a
		}
		return nil, xerrors.User(message, payload...)
	})

	r.define("load", func(args []value.Value) (value.Value, error) {
		v, err := arity1("load", args)
		if err != nil {
			return nil, err
		}
		path, ok := v.(value.String)
		if !ok {
			return nil, xerrors.Eval("load: argument must be a string path")
		}
		if r.loader == nil {
			return nil, xerrors.Eval("load: no loader is configured")
		}
		if err := r.loader.Load(string(path)); err != nil {
			return nil, err
		}
		return value.False, nil
	})

	r.define("exit", func(args []value.Value) (value.Value, error) {
		code := 0
		if len(args) > 0 {
			if n, ok := args[0].(*value.Integer); ok && n.IsInt64() {
				code = int(n.Int64())
			}
		}
		os.Exit(code)
		return value.False, nil // unreachable
	})
}

// eq compares integers, booleans and characters by value, since a
// fresh Integer is heap-allocated per arithmetic result and identity
// would make `(eq? (+ 1 1) 2)` implementation-defined in a surprising
// way; every other type compares by Go pointer/interface identity.
func eq(a, b value.Value) bool {
	switch x := a.(type) {
	case *value.Integer:
		y, ok := b.(*value.Integer)
		return ok && x.Cmp(y.Int) == 0
	case value.Boolean:
		y, ok := b.(value.Boolean)
		return ok && x == y
	case value.Char:
		y, ok := b.(value.Char)
		return ok && x == y
	default:
		if value.IsEmpty(a) && value.IsEmpty(b) {
			return true
		}
		if value.IsEOF(a) && value.IsEOF(b) {
			return true
		}
		return a == b
	}
}
