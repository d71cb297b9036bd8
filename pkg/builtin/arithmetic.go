package builtin

import (
	"math/big"

	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

func asInteger(name string, v value.Value) (*value.Integer, error) {
	n, ok := v.(*value.Integer)
	if !ok {
		return nil, xerrors.Eval("%s: argument is not a number", name)
	}
	return n, nil
}

func (r *registry) installArithmetic() {
	r.define("+", func(args []value.Value) (value.Value, error) {
		sum := big.NewInt(0)
		for _, a := range args {
			n, err := asInteger("+", a)
			if err != nil {
				return nil, err
			}
			sum.Add(sum, n.Int)
		}
		return value.NewIntFromBig(sum), nil
	})

	r.define("-", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, xerrors.Eval("-: expected at least 1 argument")
		}
		first, err := asInteger("-", args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return value.NewIntFromBig(new(big.Int).Neg(first.Int)), nil
		}
		acc := new(big.Int).Set(first.Int)
		for _, a := range args[1:] {
			n, err := asInteger("-", a)
			if err != nil {
				return nil, err
			}
			acc.Sub(acc, n.Int)
		}
		return value.NewIntFromBig(acc), nil
	})

	r.define("*", func(args []value.Value) (value.Value, error) {
		product := big.NewInt(1)
		for _, a := range args {
			n, err := asInteger("*", a)
			if err != nil {
				return nil, err
			}
			product.Mul(product, n.Int)
		}
		return value.NewIntFromBig(product), nil
	})

	r.define("/", func(args []value.Value) (value.Value, error) {
		if len(args) < 2 {
			return nil, xerrors.Eval("/: expected at least 2 arguments")
		}
		first, err := asInteger("/", args[0])
		if err != nil {
			return nil, err
		}
		acc := new(big.Int).Set(first.Int)
		for _, a := range args[1:] {
			n, err := asInteger("/", a)
			if err != nil {
				return nil, err
			}
			if n.Sign() == 0 {
				return nil, xerrors.Eval("/: division by zero")
			}
			q, rem := new(big.Int), new(big.Int)
			q.QuoRem(acc, n.Int, rem)
			if rem.Sign() != 0 {
				return nil, xerrors.Eval("/: inexact division is not supported (arbitrary-precision integers only)")
			}
			acc = q
		}
		return value.NewIntFromBig(acc), nil
	})

	r.define("quotient", func(args []value.Value) (value.Value, error) {
		a, b, err := twoIntegers("quotient", args)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			return nil, xerrors.Eval("quotient: division by zero")
		}
		return value.NewIntFromBig(new(big.Int).Quo(a.Int, b.Int)), nil
	})

	r.define("remainder", func(args []value.Value) (value.Value, error) {
		a, b, err := twoIntegers("remainder", args)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			return nil, xerrors.Eval("remainder: division by zero")
		}
		return value.NewIntFromBig(new(big.Int).Rem(a.Int, b.Int)), nil
	})

	r.define("modulo", func(args []value.Value) (value.Value, error) {
		a, b, err := twoIntegers("modulo", args)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			return nil, xerrors.Eval("modulo: division by zero")
		}
		m := new(big.Int).Mod(a.Int, b.Int)
		if m.Sign() != 0 && b.Sign() < 0 {
			m.Add(m, b.Int)
		}
		return value.NewIntFromBig(m), nil
	})
}

func twoIntegers(name string, args []value.Value) (*value.Integer, *value.Integer, error) {
	if len(args) != 2 {
		return nil, nil, xerrors.Eval("%s: expected exactly 2 arguments, got %d", name, len(args))
	}
	a, err := asInteger(name, args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asInteger(name, args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
