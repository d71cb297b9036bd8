package compiler

import (
	"gosch/internal/xerrors"
	"gosch/pkg/ast"
	"gosch/pkg/value"
	"gosch/pkg/vm"
)

// Emit lowers a tail-annotated core AST node into a fresh top-level
// Bytecode record. Callers run AnalyzeTail first; Emit only overrides
// the flags of positions that are never tail (sub-expressions set to
// false, lambda bodies to true), in place, via withTail.
func Emit(node ast.Node) (*value.Bytecode, error) {
	bc := value.NewBytecode()
	e := &emitter{bc: bc}
	if err := e.emit(node); err != nil {
		return nil, err
	}
	return bc, nil
}

type emitter struct {
	bc *value.Bytecode
}

// emitOpWithOperand appends the shortest opcode variant (op1 or op3)
// able to hold n.
func (e *emitter) emitOpWithOperand(op1, op3 byte, n int) error {
	op, ok := shortestWidth(n, op1, op3)
	if !ok {
		return xerrors.Compile("operand %d does not fit even the widest opcode form", n)
	}
	e.bc.Code = append(e.bc.Code, op)
	if n <= 0xFF {
		e.bc.Code = encodeOperand1(e.bc.Code, n)
	} else {
		e.bc.Code = encodeOperand3(e.bc.Code, n)
	}
	return nil
}

func (e *emitter) emitRet() {
	e.bc.Code = append(e.bc.Code, vm.OpRet)
}

func (e *emitter) emit(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Constant:
		idx := e.bc.AddConstant(n.Value)
		if err := e.emitOpWithOperand(vm.OpConst1, vm.OpConst3, idx); err != nil {
			return err
		}
		if n.Tail {
			e.emitRet()
		}
		return nil

	case *ast.GetVariable:
		idx := e.bc.AddVariable(n.Name)
		if err := e.emitOpWithOperand(vm.OpReadVar1, vm.OpReadVar3, idx); err != nil {
			return err
		}
		if n.Tail {
			e.emitRet()
		}
		return nil

	case *ast.SetVariable:
		if err := e.emit(withTail(n.Value, false)); err != nil {
			return err
		}
		idx := e.bc.AddVariable(n.Name)
		if err := e.emitOpWithOperand(vm.OpSetVar1, vm.OpSetVar3, idx); err != nil {
			return err
		}
		e.bc.Code = append(e.bc.Code, vm.OpPushFalse)
		if n.Tail {
			e.emitRet()
		}
		return nil

	case *ast.DefineVariable:
		if err := e.emit(withTail(n.Value, false)); err != nil {
			return err
		}
		idx := e.bc.AddVariable(n.Name)
		if err := e.emitOpWithOperand(vm.OpDefine1, vm.OpDefine3, idx); err != nil {
			return err
		}
		e.bc.Code = append(e.bc.Code, vm.OpPushFalse)
		if n.Tail {
			e.emitRet()
		}
		return nil

	case *ast.Apply:
		if err := e.emit(withTail(n.Operator, false)); err != nil {
			return err
		}
		for _, operand := range n.Operands {
			if err := e.emit(withTail(operand, false)); err != nil {
				return err
			}
		}
		op1, op3 := vm.OpCall1, vm.OpCall3
		if n.Tail {
			op1, op3 = vm.OpTailCall1, vm.OpTailCall3
		}
		if err := e.emitOpWithOperand(op1, op3, len(n.Operands)); err != nil {
			return err
		}
		// TAIL_CALL replaces the current frame; nothing follows it.
		return nil

	case *ast.If:
		return e.emitIf(n)

	case *ast.Block:
		return e.emitBlock(n)

	case *ast.Lambda:
		return e.emitLambda(n)

	default:
		return xerrors.Compile("emit: unhandled AST node")
	}
}

// withTail sets node's Tail in place and returns node, used
// when emitting sub-expressions that must be non-tail regardless of
// the already-stamped flag (the stamping pass already set it
// correctly in practice, but emit() makes the contract explicit and
// self-contained rather than relying on AnalyzeTail's traversal order
// matching emit's exactly).
func withTail(node ast.Node, tail bool) ast.Node {
	node.SetTail(tail)
	return node
}

func (e *emitter) emitIf(n *ast.If) error {
	if err := e.emit(withTail(n.Test, false)); err != nil {
		return err
	}
	jumpIfNotPos := len(e.bc.Code)
	e.bc.Code = append(e.bc.Code, vm.OpJumpIfNot, 0, 0, 0) // placeholder operand

	if err := e.emit(n.Then); err != nil {
		return err
	}

	var jumpPos int
	if !n.Tail {
		jumpPos = len(e.bc.Code)
		e.bc.Code = append(e.bc.Code, vm.OpJump, 0, 0, 0)
	}

	elseTarget := len(e.bc.Code)
	patchOperand3(e.bc.Code, jumpIfNotPos+1, elseTarget)

	if n.Else != nil {
		if err := e.emit(n.Else); err != nil {
			return err
		}
	} else {
		e.bc.Code = append(e.bc.Code, vm.OpPushFalse)
		if n.Tail {
			e.emitRet()
		}
	}

	if !n.Tail {
		end := len(e.bc.Code)
		patchOperand3(e.bc.Code, jumpPos+1, end)
	}
	return nil
}

func (e *emitter) emitBlock(n *ast.Block) error {
	if len(n.Forms) == 0 {
		e.bc.Code = append(e.bc.Code, vm.OpPushFalse)
		if n.Tail {
			e.emitRet()
		}
		return nil
	}
	last := len(n.Forms) - 1
	for i, form := range n.Forms {
		if i == last {
			if err := e.emit(form); err != nil {
				return err
			}
			continue
		}
		if err := e.emit(withTail(form, false)); err != nil {
			return err
		}
		e.bc.Code = append(e.bc.Code, vm.OpDrop)
	}
	return nil
}

func (e *emitter) emitLambda(n *ast.Lambda) error {
	childBC := value.NewBytecode()
	childBC.Formals = n.Formals
	childBC.FormalsRest = n.FormalsRest
	child := &emitter{bc: childBC}
	if err := child.emit(withTail(n.Body, true)); err != nil {
		return err
	}

	idx := e.bc.AddConstant(childBC)
	if err := e.emitOpWithOperand(vm.OpConst1, vm.OpConst3, idx); err != nil {
		return err
	}
	e.bc.Code = append(e.bc.Code, vm.OpMakeClosure)
	if n.Tail {
		e.emitRet()
	}
	return nil
}
