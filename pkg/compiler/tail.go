package compiler

import "gosch/pkg/ast"

// AnalyzeTail runs the single tail-position pass over a freshly
// compiled AST node, treating it as a top-level expression: a tail
// position in its own right.
func AnalyzeTail(node ast.Node) {
	analyze(node, true)
}

// analyze stamps node.Tail = tail, then recurses into subexpressions.
// Non-tail positions (conditions, assigned values, applied procedures,
// operands, all-but-last block forms) recurse with tail=false
// regardless of the caller's flag.
func analyze(node ast.Node, tail bool) {
	if node == nil {
		return
	}
	node.SetTail(tail)

	switch n := node.(type) {
	case *ast.Constant:
		// no subexpressions

	case *ast.GetVariable:
		// no subexpressions

	case *ast.SetVariable:
		analyze(n.Value, false)

	case *ast.DefineVariable:
		analyze(n.Value, false)

	case *ast.Apply:
		analyze(n.Operator, false)
		for _, operand := range n.Operands {
			analyze(operand, false)
		}

	case *ast.If:
		analyze(n.Test, false)
		analyze(n.Then, tail)
		if n.Else != nil {
			analyze(n.Else, tail)
		}

	case *ast.Block:
		analyzeBlock(n, tail)

	case *ast.Lambda:
		// A lambda's own occurrence (e.g. as a `define` value) is never
		// itself a tail call; its body root is always tail, independent
		// of the Lambda node's own position.
		analyzeBlock(n.Body, true)
	}
}

func analyzeBlock(b *ast.Block, tail bool) {
	if b == nil || len(b.Forms) == 0 {
		return
	}
	last := len(b.Forms) - 1
	for i, form := range b.Forms {
		if i == last {
			analyze(form, tail)
		} else {
			analyze(form, false)
		}
	}
}
