package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

// installRecords gives Scheme code its own opaque record types: a
// record type is named and carries a fixed field list;
// constructor/predicate/accessor/modifier are each generated as
// closures bound over that specific type and (where relevant) field
// index.
func (r *registry) installRecords() {
	r.define("make-record-type", func(args []value.Value) (value.Value, error) {
		if len(args) < 1 {
			return nil, xerrors.Eval("make-record-type: expected a name and zero or more field names")
		}
		name, ok := args[0].(value.String)
		if !ok {
			return nil, xerrors.Eval("make-record-type: first argument must be a string")
		}
		// Field names come either as one list argument or as separate
		// symbol arguments.
		fieldArgs := args[1:]
		if len(args) == 2 && value.IsList(args[1]) {
			fieldArgs, _ = value.ToSlice(args[1])
		}
		fields := make([]string, len(fieldArgs))
		for i, a := range fieldArgs {
			sym, ok := a.(*value.Symbol)
			if !ok {
				return nil, xerrors.Eval("make-record-type: field names must be symbols")
			}
			fields[i] = sym.Name
		}
		return &value.RecordType{Name: string(name), Fields: fields}, nil
	})

	r.define("record-constructor", func(args []value.Value) (value.Value, error) {
		rt, err := argRecordType("record-constructor", args)
		if err != nil {
			return nil, err
		}
		fn := func(cargs []value.Value) (value.Value, error) {
			if len(cargs) != len(rt.Fields) {
				return nil, xerrors.Eval("%s constructor: expected %d arguments, got %d", rt.Name, len(rt.Fields), len(cargs))
			}
			values := make([]value.Value, len(cargs))
			copy(values, cargs)
			return &value.Record{Type: rt, Values: values}, nil
		}
		return &value.HostProc{Name: rt.Name + "-constructor", Fn: fn}, nil
	})

	r.define("record-predicate", func(args []value.Value) (value.Value, error) {
		rt, err := argRecordType("record-predicate", args)
		if err != nil {
			return nil, err
		}
		fn := func(pargs []value.Value) (value.Value, error) {
			v, err := arity1(rt.Name+"?", pargs)
			if err != nil {
				return nil, err
			}
			rec, ok := v.(*value.Record)
			return boolOf(ok && rec.Type == rt), nil
		}
		return &value.HostProc{Name: rt.Name + "?", Fn: fn}, nil
	})

	r.define("record-accessor", func(args []value.Value) (value.Value, error) {
		rt, field, err := recordTypeAndField("record-accessor", args)
		if err != nil {
			return nil, err
		}
		idx := rt.FieldIndex(field)
		if idx < 0 {
			return nil, xerrors.Eval("record-accessor: %s has no field %q", rt.Name, field)
		}
		name := rt.Name + "-" + field
		fn := func(aargs []value.Value) (value.Value, error) {
			rec, err := argRecordOfType(name, rt, aargs)
			if err != nil {
				return nil, err
			}
			return rec.Values[idx], nil
		}
		return &value.HostProc{Name: name, Fn: fn}, nil
	})

	r.define("record-modifier", func(args []value.Value) (value.Value, error) {
		rt, field, err := recordTypeAndField("record-modifier", args)
		if err != nil {
			return nil, err
		}
		idx := rt.FieldIndex(field)
		if idx < 0 {
			return nil, xerrors.Eval("record-modifier: %s has no field %q", rt.Name, field)
		}
		name := "set-" + rt.Name + "-" + field + "!"
		fn := func(margs []value.Value) (value.Value, error) {
			if len(margs) != 2 {
				return nil, xerrors.Eval("%s: expected exactly 2 arguments, got %d", name, len(margs))
			}
			rec, err := argRecordOfType(name, rt, margs[:1])
			if err != nil {
				return nil, err
			}
			rec.Values[idx] = margs[1]
			return value.False, nil
		}
		return &value.HostProc{Name: name, Fn: fn}, nil
	})
}

func argRecordType(name string, args []value.Value) (*value.RecordType, error) {
	v, err := arity1(name, args)
	if err != nil {
		return nil, err
	}
	rt, ok := v.(*value.RecordType)
	if !ok {
		return nil, xerrors.Eval("%s: argument must be a record type", name)
	}
	return rt, nil
}

func recordTypeAndField(name string, args []value.Value) (*value.RecordType, string, error) {
	if len(args) != 2 {
		return nil, "", xerrors.Eval("%s: expected exactly 2 arguments, got %d", name, len(args))
	}
	rt, ok := args[0].(*value.RecordType)
	if !ok {
		return nil, "", xerrors.Eval("%s: first argument must be a record type", name)
	}
	sym, ok := args[1].(*value.Symbol)
	if !ok {
		return nil, "", xerrors.Eval("%s: second argument must be a symbol naming a field", name)
	}
	return rt, sym.Name, nil
}

func argRecordOfType(name string, rt *value.RecordType, args []value.Value) (*value.Record, error) {
	v, err := arity1(name, args)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*value.Record)
	if !ok || rec.Type != rt {
		return nil, xerrors.Eval("%s: argument is not a %s record", name, rt.Name)
	}
	return rec, nil
}
