package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/ioport"
	"gosch/pkg/value"
)

func boolOf(b bool) value.Value { return value.Boolean(b) }

func arity1(name string, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, xerrors.Eval("%s: expected exactly 1 argument, got %d", name, len(args))
	}
	return args[0], nil
}

func (r *registry) installPredicates() {
	r.define("pair?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("pair?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsPair(v)), nil
	})
	r.define("null?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("null?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsEmpty(v)), nil
	})
	r.define("list?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("list?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsList(v)), nil
	})
	r.define("eof?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("eof?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsEOF(v)), nil
	})
	r.define("symbol?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("symbol?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsSymbol(v)), nil
	})
	r.define("number?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("number?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsInteger(v)), nil
	})
	r.define("string?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("string?", args)
		if err != nil {
			return nil, err
		}
		_, ok := v.(value.String)
		return boolOf(ok), nil
	})
	r.define("boolean?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("boolean?", args)
		if err != nil {
			return nil, err
		}
		_, ok := v.(value.Boolean)
		return boolOf(ok), nil
	})
	r.define("procedure?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("procedure?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsProcedure(v)), nil
	})
	r.define("char?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("char?", args)
		if err != nil {
			return nil, err
		}
		_, ok := v.(value.Char)
		return boolOf(ok), nil
	})
	r.define("bytevector?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("bytevector?", args)
		if err != nil {
			return nil, err
		}
		_, ok := v.(*value.Bytevector)
		return boolOf(ok), nil
	})
	r.define("keyword?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("keyword?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsKeyword(v)), nil
	})
	r.define("port?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("port?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(ioport.IsPort(v)), nil
	})
}
