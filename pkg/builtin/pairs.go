package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

func (r *registry) installPairs() {
	r.define("cons", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("cons: expected exactly 2 arguments, got %d", len(args))
		}
		return value.Cons(args[0], args[1]), nil
	})
	r.define("car", func(args []value.Value) (value.Value, error) {
		v, err := arity1("car", args)
		if err != nil {
			return nil, err
		}
		p, ok := v.(*value.Pair)
		if !ok {
			return nil, xerrors.Eval("car: not a pair")
		}
		return p.Car, nil
	})
	r.define("cdr", func(args []value.Value) (value.Value, error) {
		v, err := arity1("cdr", args)
		if err != nil {
			return nil, err
		}
		p, ok := v.(*value.Pair)
		if !ok {
			return nil, xerrors.Eval("cdr: not a pair")
		}
		return p.Cdr, nil
	})
	r.define("set-car!", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("set-car!: expected exactly 2 arguments, got %d", len(args))
		}
		p, ok := args[0].(*value.Pair)
		if !ok {
			return nil, xerrors.Eval("set-car!: not a pair")
		}
		p.Car = args[1]
		return value.False, nil
	})
	r.define("set-cdr!", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("set-cdr!: expected exactly 2 arguments, got %d", len(args))
		}
		p, ok := args[0].(*value.Pair)
		if !ok {
			return nil, xerrors.Eval("set-cdr!: not a pair")
		}
		p.Cdr = args[1]
		return value.False, nil
	})
	r.define("list", func(args []value.Value) (value.Value, error) {
		return value.FromSlice(args), nil
	})
}
