// Package vm implements the stack-based bytecode virtual machine: a
// value stack, a call stack of saved (bytecode, ip, env) frames, and a
// step-driven decode loop supporting first-class closures and proper
// tail calls.
package vm

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gosch/internal/xerrors"
	"gosch/pkg/value"
)

// MaxCallStackDepth bounds non-tail call nesting; it exists only to
// turn runaway non-tail recursion into a diagnosable evaluation error
// instead of an unbounded Go-stack/heap grow, since proper tail calls
// never push a frame at all.
const MaxCallStackDepth = 100000

// frame is a saved (bytecode, ip, env) triple, pushed by a non-tail
// CALL and popped by RET.
type frame struct {
	bytecode *value.Bytecode
	ip       int
	env      *value.Environment
}

// VM executes one top-level bytecode record to completion. A fresh VM
// is created per top-level evaluation by pkg/interp; global state
// (the environment chain and interned tables) outlives any single VM.
type VM struct {
	bytecode   *value.Bytecode
	ip         int
	env        *value.Environment
	stack      []value.Value
	callStack  []frame
	trace      bool
	logger     zerolog.Logger
}

// New creates a VM ready to execute bytecode against env. trace, when
// true, logs each decoded instruction at debug level.
func New(bytecode *value.Bytecode, env *value.Environment, trace bool) *VM {
	return &VM{
		bytecode: bytecode,
		ip:       0,
		env:      env,
		stack:    make([]value.Value, 0, 64),
		trace:    trace,
		logger:   log.Logger,
	}
}

func (m *VM) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *VM) pop() (value.Value, error) {
	if len(m.stack) == 0 {
		return nil, xerrors.Eval("stack underflow")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

// popN pops n values, returning them in original (bottom-to-top)
// order, preserving left-to-right argument evaluation order.
func (m *VM) popN(n int) ([]value.Value, error) {
	if len(m.stack) < n {
		return nil, xerrors.Eval("stack underflow: need %d, have %d", n, len(m.stack))
	}
	args := make([]value.Value, n)
	copy(args, m.stack[len(m.stack)-n:])
	m.stack = m.stack[:len(m.stack)-n]
	return args, nil
}

// DebugInfo reports the VM's current instruction pointer, stack depth
// and call-stack depth.
type DebugInfo struct {
	IP             int
	StackDepth     int
	CallStackDepth int
	Opcode         string
}

// DebugInfo snapshots the VM's current position without executing.
func (m *VM) DebugInfo() DebugInfo {
	op := "?"
	if m.ip < len(m.bytecode.Code) {
		op = OpcodeName(m.bytecode.Code[m.ip])
	}
	return DebugInfo{
		IP:             m.ip,
		StackDepth:     len(m.stack),
		CallStackDepth: len(m.callStack),
		Opcode:         op,
	}
}

// Run decodes and executes instructions until the outermost RET,
// returning the single result value.
func (m *VM) Run() (value.Value, error) {
	for {
		result, done, err := m.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return result, nil
		}
	}
}

// Step decodes and executes exactly one instruction. done is true once
// the outermost frame has returned, at which point result holds the
// overall value.
func (m *VM) Step() (result value.Value, done bool, err error) {
	code := m.bytecode.Code
	if m.ip >= len(code) {
		return nil, false, xerrors.Eval("instruction pointer ran off the end of bytecode")
	}
	op := code[m.ip]
	if m.trace {
		m.logger.Debug().
			Int("ip", m.ip).
			Str("op", OpcodeName(op)).
			Int("stack_depth", len(m.stack)).
			Int("call_depth", len(m.callStack)).
			Msg("vm.step")
	}
	m.ip++

	switch op {
	case OpConst1, OpConst3:
		idx, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		if idx < 0 || idx >= len(m.bytecode.Constants) {
			return nil, false, xerrors.Eval("constant index %d out of range", idx)
		}
		m.push(m.bytecode.Constants[idx])

	case OpReadVar1, OpReadVar3:
		idx, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		sym, werr := m.variable(idx)
		if werr != nil {
			return nil, false, werr
		}
		v, lerr := m.env.Lookup(sym)
		if lerr != nil {
			return nil, false, xerrors.Unbound(sym.Name)
		}
		m.push(v)

	case OpSetVar1, OpSetVar3:
		idx, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		sym, werr := m.variable(idx)
		if werr != nil {
			return nil, false, werr
		}
		v, perr := m.pop()
		if perr != nil {
			return nil, false, perr
		}
		if aerr := m.env.Assign(sym, v); aerr != nil {
			return nil, false, xerrors.Unbound(sym.Name)
		}

	case OpDefine1, OpDefine3:
		idx, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		sym, werr := m.variable(idx)
		if werr != nil {
			return nil, false, werr
		}
		v, perr := m.pop()
		if perr != nil {
			return nil, false, perr
		}
		m.env.Define(sym, v)

	case OpPushFalse:
		m.push(value.False)

	case OpDrop:
		if _, perr := m.pop(); perr != nil {
			return nil, false, perr
		}

	case OpCall1, OpCall3:
		n, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		cresult, cdone, cerr := m.call(n, false)
		if cerr != nil {
			return nil, false, cerr
		}
		if cdone {
			return cresult, true, nil
		}

	case OpTailCall1, OpTailCall3:
		n, werr := m.readOperand(op)
		if werr != nil {
			return nil, false, werr
		}
		cresult, cdone, cerr := m.call(n, true)
		if cerr != nil {
			return nil, false, cerr
		}
		if cdone {
			return cresult, true, nil
		}

	case OpJump:
		target := decodeOperand3(code, m.ip)
		m.ip = target

	case OpJumpIfNot:
		target := decodeOperand3(code, m.ip)
		m.ip += 3
		v, perr := m.pop()
		if perr != nil {
			return nil, false, perr
		}
		if !value.IsTruthy(v) {
			m.ip = target
		}

	case OpRet:
		v, perr := m.pop()
		if perr != nil {
			return nil, false, perr
		}
		if len(m.callStack) == 0 {
			return v, true, nil
		}
		top := m.callStack[len(m.callStack)-1]
		m.callStack = m.callStack[:len(m.callStack)-1]
		m.bytecode, m.ip, m.env = top.bytecode, top.ip, top.env
		m.push(v)

	case OpMakeClosure:
		v, perr := m.pop()
		if perr != nil {
			return nil, false, perr
		}
		bc, ok := v.(*value.Bytecode)
		if !ok {
			return nil, false, xerrors.Eval("MAKE_CLOSURE operand is not bytecode")
		}
		m.push(&value.Closure{Code: bc, Env: m.env})

	case OpApply:
		return nil, false, xerrors.Eval("APPLY is reserved and not yet emitted by the compiler")

	default:
		return nil, false, xerrors.Eval("unknown opcode 0x%02X at ip %d", op, m.ip-1)
	}

	return nil, false, nil
}

// readOperand decodes the operand for op (whichever width it has) and
// advances m.ip past it.
func (m *VM) readOperand(op byte) (int, error) {
	width := operandWidth(op)
	code := m.bytecode.Code
	switch width {
	case 1:
		if m.ip >= len(code) {
			return 0, xerrors.Eval("truncated 1-byte operand at ip %d", m.ip)
		}
		n := decodeOperand1(code, m.ip)
		m.ip++
		return n, nil
	case 3:
		if m.ip+3 > len(code) {
			return 0, xerrors.Eval("truncated 3-byte operand at ip %d", m.ip)
		}
		n := decodeOperand3(code, m.ip)
		m.ip += 3
		return n, nil
	default:
		return 0, xerrors.Eval("opcode 0x%02X has no operand", op)
	}
}

func (m *VM) variable(idx int) (*value.Symbol, error) {
	if idx < 0 || idx >= len(m.bytecode.Variables) {
		return nil, xerrors.Eval("variable index %d out of range", idx)
	}
	return m.bytecode.Variables[idx], nil
}

// call implements CALL N / TAIL_CALL N: pop N arguments then the
// procedure, dispatch on closure vs. host procedure, and either push a
// new call frame (non-tail) or reuse the current one (tail), so
// purely-tail-recursive programs run in bounded call-stack depth.
// It returns done=true only when a tail call to a host procedure
// unwinds an empty call stack, meaning the overall Run has finished
// with result; callers must treat that exactly like OpRet reaching an
// empty call stack.
func (m *VM) call(n int, tail bool) (result value.Value, done bool, err error) {
	args, err := m.popN(n)
	if err != nil {
		return nil, false, err
	}
	proc, err := m.pop()
	if err != nil {
		return nil, false, err
	}

	switch p := proc.(type) {
	case *value.Closure:
		callEnv, berr := bindFormals(p.Code, p.Env, args)
		if berr != nil {
			return nil, false, berr
		}
		if !tail {
			if len(m.callStack) >= MaxCallStackDepth {
				return nil, false, xerrors.Eval("call stack depth exceeded %d", MaxCallStackDepth)
			}
			m.callStack = append(m.callStack, frame{bytecode: m.bytecode, ip: m.ip, env: m.env})
		}
		m.bytecode, m.ip, m.env = p.Code, 0, callEnv
		return nil, false, nil

	case *value.HostProc:
		hresult, herr := p.Fn(args)
		if herr != nil {
			return nil, false, herr
		}
		if tail {
			m.push(hresult)
			return m.returnTail()
		}
		m.push(hresult)
		return nil, false, nil

	default:
		return nil, false, xerrors.Eval("cannot apply non-procedure value")
	}
}

// returnTail runs RET's epilogue after a tail-positioned host-procedure
// call: push the return value, then pop the call stack exactly as RET
// would. On an empty call stack this is the overall result, exactly as
// when RET itself reaches an empty call stack.
func (m *VM) returnTail() (value.Value, bool, error) {
	v, err := m.pop()
	if err != nil {
		return nil, false, err
	}
	if len(m.callStack) == 0 {
		return v, true, nil
	}
	top := m.callStack[len(m.callStack)-1]
	m.callStack = m.callStack[:len(m.callStack)-1]
	m.bytecode, m.ip, m.env = top.bytecode, top.ip, top.env
	m.push(v)
	return nil, false, nil
}

// bindFormals binds code's formal parameters (and optional rest
// parameter) to args in a fresh frame.
func bindFormals(code *value.Bytecode, parent *value.Environment, args []value.Value) (*value.Environment, error) {
	k := len(code.Formals)
	n := len(args)
	if n < k {
		return nil, xerrors.Eval("too few arguments: expected at least %d, got %d", k, n)
	}
	if code.FormalsRest == nil && n > k {
		return nil, xerrors.Eval("too many arguments: expected %d, got %d", k, n)
	}
	env := value.NewEnvironment(parent)
	for i, formal := range code.Formals {
		env.Define(formal, args[i])
	}
	if code.FormalsRest != nil {
		env.Define(code.FormalsRest, value.FromSlice(args[k:]))
	}
	return env, nil
}
