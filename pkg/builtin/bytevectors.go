package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

func (r *registry) installBytevectors() {
	r.define("make-bytevector", func(args []value.Value) (value.Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, xerrors.Eval("make-bytevector: expected 1 or 2 arguments, got %d", len(args))
		}
		k, err := byteIndex("make-bytevector", args[0])
		if err != nil {
			return nil, err
		}
		var fill byte
		if len(args) == 2 {
			b, err := byteIndex("make-bytevector", args[1])
			if err != nil {
				return nil, err
			}
			fill = byte(b)
		}
		return value.NewBytevector(k, fill), nil
	})

	r.define("bytevector", func(args []value.Value) (value.Value, error) {
		bytes := make([]byte, len(args))
		for i, a := range args {
			b, err := byteIndex("bytevector", a)
			if err != nil {
				return nil, err
			}
			bytes[i] = byte(b)
		}
		return &value.Bytevector{Bytes: bytes}, nil
	})

	r.define("bytevector-length", func(args []value.Value) (value.Value, error) {
		bv, err := argBytevector("bytevector-length", args)
		if err != nil {
			return nil, err
		}
		return value.NewInt(int64(len(bv.Bytes))), nil
	})

	r.define("bytevector-u8-ref", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("bytevector-u8-ref: expected exactly 2 arguments, got %d", len(args))
		}
		bv, ok := args[0].(*value.Bytevector)
		if !ok {
			return nil, xerrors.Eval("bytevector-u8-ref: first argument must be a bytevector")
		}
		idx, err := byteIndex("bytevector-u8-ref", args[1])
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(bv.Bytes) {
			return nil, xerrors.Eval("bytevector-u8-ref: index %d out of range", idx)
		}
		return value.NewInt(int64(bv.Bytes[idx])), nil
	})

	r.define("bytevector-u8-set!", func(args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, xerrors.Eval("bytevector-u8-set!: expected exactly 3 arguments, got %d", len(args))
		}
		bv, ok := args[0].(*value.Bytevector)
		if !ok {
			return nil, xerrors.Eval("bytevector-u8-set!: first argument must be a bytevector")
		}
		idx, err := byteIndex("bytevector-u8-set!", args[1])
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(bv.Bytes) {
			return nil, xerrors.Eval("bytevector-u8-set!: index %d out of range", idx)
		}
		b, err := byteIndex("bytevector-u8-set!", args[2])
		if err != nil {
			return nil, err
		}
		bv.Bytes[idx] = byte(b)
		return value.False, nil
	})
}

func byteIndex(name string, v value.Value) (int, error) {
	n, ok := v.(*value.Integer)
	if !ok || !n.IsInt64() {
		return 0, xerrors.Eval("%s: expected a small non-negative integer", name)
	}
	return int(n.Int64()), nil
}

func argBytevector(name string, args []value.Value) (*value.Bytevector, error) {
	v, err := arity1(name, args)
	if err != nil {
		return nil, err
	}
	bv, ok := v.(*value.Bytevector)
	if !ok {
		return nil, xerrors.Eval("%s: argument must be a bytevector", name)
	}
	return bv, nil
}
