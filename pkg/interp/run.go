package interp

import (
	"gosch/pkg/value"
	"gosch/pkg/vm"
)

// runBytecode drives one fresh VM over bc against env to completion.
// Each top-level form gets its own VM instance; the environment (and
// anything closures captured from it) is the only state that survives
// across forms.
func runBytecode(bc *value.Bytecode, env *value.Environment, trace bool) (value.Value, error) {
	m := vm.New(bc, env, trace)
	return m.Run()
}
