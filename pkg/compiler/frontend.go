// Package compiler implements the frontend surface-to-AST compiler,
// the tail-position analyzer and the variable-width bytecode emitter.
// Special forms dispatch via an environment of sentinel markers;
// bytecode emission does shortest-fit operand selection with
// forward-jump patching.
package compiler

import (
	"gosch/internal/xerrors"
	"gosch/pkg/ast"
	"gosch/pkg/value"
)

// specialForm is a sentinel bound in the compile-time environment
// against the symbols that introduce special forms. It is never a
// first-class Scheme value; dispatch is purely by identity lookup of
// the head symbol in a *SpecialForms table.
type specialForm int

const (
	formQuote specialForm = iota
	formIf
	formLambda
	formDefine
	formSetBang
)

// SpecialForms is the compile-time table of special-form bindings. A
// fresh table has the five forms below bound; its bindings are
// unexported and no method adds, removes or rebinds one.
type SpecialForms struct {
	bindings map[*value.Symbol]specialForm
}

// NewSpecialForms builds the default table, interning the five
// special-form names against symbols.
func NewSpecialForms(symbols *value.SymbolTable) *SpecialForms {
	sf := &SpecialForms{bindings: make(map[*value.Symbol]specialForm)}
	sf.bindings[symbols.Intern("quote")] = formQuote
	sf.bindings[symbols.Intern("if")] = formIf
	sf.bindings[symbols.Intern("lambda")] = formLambda
	sf.bindings[symbols.Intern("define")] = formDefine
	sf.bindings[symbols.Intern("set!")] = formSetBang
	return sf
}

// Compiler lowers surface data into core AST nodes. It holds no
// mutable compile state of its own beyond the symbol/keyword tables
// and special-form bindings, so one Compiler can be reused across every
// top-level form in a session.
type Compiler struct {
	symbols  *value.SymbolTable
	keywords *value.KeywordTable
	forms    *SpecialForms
	restKw   *value.Keyword // the :rest keyword recognized in lambda formals
}

// New builds a Compiler sharing tables with the reader that produced
// the data it will compile.
func New(symbols *value.SymbolTable, keywords *value.KeywordTable, forms *SpecialForms) *Compiler {
	return &Compiler{
		symbols:  symbols,
		keywords: keywords,
		forms:    forms,
		restKw:   keywords.Intern(":rest"),
	}
}

// Compile lowers one surface datum into a core AST node. The result is
// unannotated; callers run AnalyzeTail before emission.
func (c *Compiler) Compile(datum value.Value) (ast.Node, error) {
	switch d := datum.(type) {
	case *value.Integer, value.String, value.Boolean, value.Char, *value.Bytevector:
		return &ast.Constant{Value: d}, nil
	case *value.Symbol:
		return &ast.GetVariable{Name: d}, nil
	case *value.Pair:
		return c.compilePair(d)
	case *value.Keyword:
		return &ast.Constant{Value: d}, nil
	default:
		if value.IsEmpty(d) {
			return &ast.Constant{Value: d}, nil
		}
		return nil, xerrors.Compile("cannot compile datum of this kind")
	}
}

func (c *Compiler) compilePair(p *value.Pair) (ast.Node, error) {
	if sym, ok := p.Car.(*value.Symbol); ok {
		if form, ok := c.forms.bindings[sym]; ok {
			return c.compileSpecialForm(form, p.Cdr)
		}
	}
	items, tail := value.ToSlice(p)
	if !value.IsEmpty(tail) {
		return nil, xerrors.Compile("improper list in application position")
	}
	if len(items) == 0 {
		return nil, xerrors.Compile("cannot apply: empty combination")
	}
	operator, err := c.Compile(items[0])
	if err != nil {
		return nil, err
	}
	operands := make([]ast.Node, len(items)-1)
	for i, item := range items[1:] {
		node, err := c.Compile(item)
		if err != nil {
			return nil, err
		}
		operands[i] = node
	}
	return &ast.Apply{Operator: operator, Operands: operands}, nil
}

func (c *Compiler) compileSpecialForm(form specialForm, rest value.Value) (ast.Node, error) {
	args, tail := value.ToSlice(rest)
	if !value.IsEmpty(tail) {
		return nil, xerrors.Compile("improper argument list in special form")
	}
	switch form {
	case formQuote:
		return c.compileQuote(args)
	case formIf:
		return c.compileIf(args)
	case formLambda:
		return c.compileLambda(args)
	case formDefine:
		return c.compileDefine(args)
	case formSetBang:
		return c.compileSetBang(args)
	default:
		return nil, xerrors.Compile("unknown special form")
	}
}

func (c *Compiler) compileQuote(args []value.Value) (ast.Node, error) {
	if len(args) != 1 {
		return nil, xerrors.Compile("quote: expected exactly one argument, got %d", len(args))
	}
	return &ast.Constant{Value: args[0]}, nil
}

func (c *Compiler) compileIf(args []value.Value) (ast.Node, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, xerrors.Compile("if: expected 2 or 3 arguments, got %d", len(args))
	}
	test, err := c.Compile(args[0])
	if err != nil {
		return nil, err
	}
	then, err := c.Compile(args[1])
	if err != nil {
		return nil, err
	}
	node := &ast.If{Test: test, Then: then}
	if len(args) == 3 {
		elseNode, err := c.Compile(args[2])
		if err != nil {
			return nil, err
		}
		node.Else = elseNode
	}
	return node, nil
}

// compileLambda handles `(lambda FORMALS BODY...)`. FORMALS is a
// (possibly dotted, possibly :rest-terminated) list of symbols.
func (c *Compiler) compileLambda(args []value.Value) (ast.Node, error) {
	if len(args) < 2 {
		return nil, xerrors.Compile("lambda: expected formals and at least one body form")
	}
	formals, restSym, err := c.parseFormals(args[0])
	if err != nil {
		return nil, err
	}
	body, err := c.compileBlock(args[1:])
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Formals: formals, FormalsRest: restSym, Body: body}, nil
}

// parseFormals recognizes: a proper list of symbols; a dotted list
// `(a b . rest)`; or the `:rest` keyword form `(a b :rest rest)`.
func (c *Compiler) parseFormals(datum value.Value) ([]*value.Symbol, *value.Symbol, error) {
	if sym, ok := datum.(*value.Symbol); ok {
		return nil, sym, nil
	}
	items, tail := value.ToSlice(datum)

	var dottedRest *value.Symbol
	if !value.IsEmpty(tail) {
		sym, ok := tail.(*value.Symbol)
		if !ok {
			return nil, nil, xerrors.Compile("lambda: malformed dotted formal parameter list")
		}
		dottedRest = sym
	}

	restIdx := -1
	for i, item := range items {
		if kw, ok := item.(*value.Keyword); ok && kw == c.restKw {
			restIdx = i
			break
		}
	}

	if restIdx == -1 {
		formals := make([]*value.Symbol, len(items))
		for i, item := range items {
			sym, ok := item.(*value.Symbol)
			if !ok {
				return nil, nil, xerrors.Compile("lambda: formal parameter is not a symbol")
			}
			formals[i] = sym
		}
		return formals, dottedRest, nil
	}

	if dottedRest != nil {
		return nil, nil, xerrors.Compile("lambda: cannot combine :rest with a dotted formal list")
	}
	if restIdx != len(items)-2 {
		return nil, nil, xerrors.Compile("lambda: :rest must be followed by exactly one symbol")
	}
	restSym, ok := items[restIdx+1].(*value.Symbol)
	if !ok {
		return nil, nil, xerrors.Compile("lambda: :rest must be followed by exactly one symbol")
	}
	formals := make([]*value.Symbol, restIdx)
	for i := 0; i < restIdx; i++ {
		sym, ok := items[i].(*value.Symbol)
		if !ok {
			return nil, nil, xerrors.Compile("lambda: formal parameter is not a symbol")
		}
		formals[i] = sym
	}
	return formals, restSym, nil
}

func (c *Compiler) compileBlock(forms []value.Value) (*ast.Block, error) {
	nodes := make([]ast.Node, len(forms))
	for i, f := range forms {
		n, err := c.Compile(f)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return &ast.Block{Forms: nodes}, nil
}

// compileDefine handles both `(define NAME VALUE)` and the procedure
// shorthand `(define (NAME . FORMALS) BODY...)`.
func (c *Compiler) compileDefine(args []value.Value) (ast.Node, error) {
	if len(args) < 1 {
		return nil, xerrors.Compile("define: missing name")
	}
	switch head := args[0].(type) {
	case *value.Symbol:
		if len(args) != 2 {
			return nil, xerrors.Compile("define: expected exactly one value expression")
		}
		val, err := c.Compile(args[1])
		if err != nil {
			return nil, err
		}
		return &ast.DefineVariable{Name: head, Value: val}, nil
	case *value.Pair:
		nameVal := head.Car
		name, ok := nameVal.(*value.Symbol)
		if !ok {
			return nil, xerrors.Compile("define: procedure name must be a symbol")
		}
		if len(args) < 2 {
			return nil, xerrors.Compile("define: procedure body is empty")
		}
		formals, rest, err := c.parseFormals(head.Cdr)
		if err != nil {
			return nil, err
		}
		body, err := c.compileBlock(args[1:])
		if err != nil {
			return nil, err
		}
		lambda := &ast.Lambda{Formals: formals, FormalsRest: rest, Body: body, Name: name.Name}
		return &ast.DefineVariable{Name: name, Value: lambda}, nil
	default:
		return nil, xerrors.Compile("define: first argument must be a symbol or a procedure header")
	}
}

func (c *Compiler) compileSetBang(args []value.Value) (ast.Node, error) {
	if len(args) != 2 {
		return nil, xerrors.Compile("set!: expected exactly two arguments, got %d", len(args))
	}
	name, ok := args[0].(*value.Symbol)
	if !ok {
		return nil, xerrors.Compile("set!: first argument must be a symbol")
	}
	val, err := c.Compile(args[1])
	if err != nil {
		return nil, err
	}
	return &ast.SetVariable{Name: name, Value: val}, nil
}
