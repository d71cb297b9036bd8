package builtin

import (
	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

// installEnvironments exposes the environment model as first-class
// Scheme data: get/set/has/delete binding, copy, and parent access.
func (r *registry) installEnvironments() {
	r.define("environment?", func(args []value.Value) (value.Value, error) {
		v, err := arity1("environment?", args)
		if err != nil {
			return nil, err
		}
		return boolOf(value.IsEnvironment(v)), nil
	})

	r.define("empty-environment", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, xerrors.Eval("empty-environment: expected no arguments")
		}
		return value.NewEnvironment(nil), nil
	})

	r.define("global-environment", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, xerrors.Eval("global-environment: expected no arguments")
		}
		e := r.env
		for e.Parent != nil {
			e = e.Parent
		}
		return e, nil
	})

	r.define("copy-environment", func(args []value.Value) (value.Value, error) {
		v, err := arity1("copy-environment", args)
		if err != nil {
			return nil, err
		}
		env, ok := v.(*value.Environment)
		if !ok {
			return nil, xerrors.Eval("copy-environment: not an environment")
		}
		out := value.NewEnvironment(env.Parent)
		for sym, val := range env.Bindings {
			out.Define(sym, val)
		}
		return out, nil
	})

	r.define("get-environment-parent", func(args []value.Value) (value.Value, error) {
		env, err := argEnvironment("get-environment-parent", args)
		if err != nil {
			return nil, err
		}
		if env.Parent == nil {
			return value.False, nil
		}
		return env.Parent, nil
	})

	r.define("set-environment-parent!", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("set-environment-parent!: expected exactly 2 arguments, got %d", len(args))
		}
		env, ok := args[0].(*value.Environment)
		if !ok {
			return nil, xerrors.Eval("set-environment-parent!: first argument is not an environment")
		}
		if value.IsEmpty(args[1]) || args[1] == value.False {
			env.Parent = nil
			return value.False, nil
		}
		parent, ok := args[1].(*value.Environment)
		if !ok {
			return nil, xerrors.Eval("set-environment-parent!: second argument is not an environment")
		}
		env.Parent = parent
		return value.False, nil
	})

	r.define("has-environment-binding?", func(args []value.Value) (value.Value, error) {
		env, sym, err := envAndSymbol("has-environment-binding?", args)
		if err != nil {
			return nil, err
		}
		_, ok := env.Bindings[sym]
		return boolOf(ok), nil
	})

	r.define("get-environment-binding", func(args []value.Value) (value.Value, error) {
		env, sym, err := envAndSymbol("get-environment-binding", args)
		if err != nil {
			return nil, err
		}
		v, ok := env.Bindings[sym]
		if !ok {
			return nil, xerrors.Unbound(sym.Name)
		}
		return v, nil
	})

	r.define("set-environment-binding!", func(args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return nil, xerrors.Eval("set-environment-binding!: expected exactly 3 arguments, got %d", len(args))
		}
		env, ok := args[0].(*value.Environment)
		if !ok {
			return nil, xerrors.Eval("set-environment-binding!: first argument is not an environment")
		}
		sym, ok := args[1].(*value.Symbol)
		if !ok {
			return nil, xerrors.Eval("set-environment-binding!: second argument is not a symbol")
		}
		env.Define(sym, args[2])
		return value.False, nil
	})

	r.define("delete-environment-binding!", func(args []value.Value) (value.Value, error) {
		env, sym, err := envAndSymbol("delete-environment-binding!", args)
		if err != nil {
			return nil, err
		}
		delete(env.Bindings, sym)
		return value.False, nil
	})

	r.define("get-environment-bindings", func(args []value.Value) (value.Value, error) {
		env, err := argEnvironment("get-environment-bindings", args)
		if err != nil {
			return nil, err
		}
		names := make([]value.Value, 0, len(env.Bindings))
		for sym := range env.Bindings {
			names = append(names, sym)
		}
		return value.FromSlice(names), nil
	})

	r.define("clear-environment-bindings!", func(args []value.Value) (value.Value, error) {
		env, err := argEnvironment("clear-environment-bindings!", args)
		if err != nil {
			return nil, err
		}
		env.Bindings = make(map[*value.Symbol]value.Value)
		return value.False, nil
	})
}

func argEnvironment(name string, args []value.Value) (*value.Environment, error) {
	v, err := arity1(name, args)
	if err != nil {
		return nil, err
	}
	env, ok := v.(*value.Environment)
	if !ok {
		return nil, xerrors.Eval("%s: argument is not an environment", name)
	}
	return env, nil
}

func envAndSymbol(name string, args []value.Value) (*value.Environment, *value.Symbol, error) {
	if len(args) != 2 {
		return nil, nil, xerrors.Eval("%s: expected exactly 2 arguments, got %d", name, len(args))
	}
	env, ok := args[0].(*value.Environment)
	if !ok {
		return nil, nil, xerrors.Eval("%s: first argument is not an environment", name)
	}
	sym, ok := args[1].(*value.Symbol)
	if !ok {
		return nil, nil, xerrors.Eval("%s: second argument is not a symbol", name)
	}
	return env, sym, nil
}
