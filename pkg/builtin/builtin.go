// Package builtin supplies the concrete host-procedure registry: a
// mapping from name strings to opaque callables that becomes the
// initial global environment, installed as value.HostProc entries into
// a *value.Environment.
package builtin

import (
	"gosch/pkg/value"
)

// Install populates env with every builtin this package defines. It is
// typically called once on the global environment at interpreter
// startup (pkg/interp).
func Install(env *value.Environment, symbols *value.SymbolTable, loader Loader) {
	reg := &registry{env: env, symbols: symbols, loader: loader}
	reg.installPredicates()
	reg.installPairs()
	reg.installArithmetic()
	reg.installComparison()
	reg.installCore()
	reg.installEnvironments()
	reg.installPorts()
	reg.installBytevectors()
	reg.installRecords()
}

// Loader resolves and evaluates a named script against the
// interpreter's load path, backing the `load` builtin. pkg/interp
// implements it; pkg/builtin only depends on the interface, since the
// interpreter in turn depends on pkg/builtin.
type Loader interface {
	Load(path string) error
}

type registry struct {
	env     *value.Environment
	symbols *value.SymbolTable
	loader  Loader
}

// define installs a host procedure named name into the registry's
// environment, interning name through the shared symbol table so it
// resolves exactly like any user-defined binding.
func (r *registry) define(name string, fn func([]value.Value) (value.Value, error)) {
	sym := r.symbols.Intern(name)
	r.env.Define(sym, &value.HostProc{Name: name, Fn: fn})
}
