package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosch/pkg/ast"
	"gosch/pkg/compiler"
	"gosch/pkg/ioport"
	"gosch/pkg/reader"
	"gosch/pkg/value"
)

type fixture struct {
	symbols *value.SymbolTable
	rdr     *reader.Reader
	c       *compiler.Compiler
}

func newFixture() *fixture {
	symbols := value.NewSymbolTable()
	keywords := value.NewKeywordTable()
	forms := compiler.NewSpecialForms(symbols)
	return &fixture{
		symbols: symbols,
		rdr:     reader.New(symbols, keywords),
		c:       compiler.New(symbols, keywords, forms),
	}
}

func (f *fixture) compile(t *testing.T, src string) ast.Node {
	t.Helper()
	datum, err := f.rdr.Read(ioport.NewStringInputPort(src))
	require.NoError(t, err)
	node, err := f.c.Compile(datum)
	require.NoError(t, err)
	return node
}

func TestCompileConstant(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "42")
	c, ok := node.(*ast.Constant)
	require.True(t, ok)
	assert.Equal(t, int64(42), c.Value.(*value.Integer).Int64())
}

func TestCompileQuoteDoesNotEvaluateOperands(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "'(a b c)")
	c, ok := node.(*ast.Constant)
	require.True(t, ok)
	items, tail := value.ToSlice(c.Value)
	require.True(t, value.IsEmpty(tail))
	assert.Len(t, items, 3)
}

func TestCompileIfThreeArms(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(if #t 1 2)")
	i, ok := node.(*ast.If)
	require.True(t, ok)
	assert.NotNil(t, i.Test)
	assert.NotNil(t, i.Then)
	assert.NotNil(t, i.Else)
}

func TestCompileIfTwoArmsLeavesElseNil(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(if #t 1)")
	i := node.(*ast.If)
	assert.Nil(t, i.Else)
}

func TestCompileIfWrongArityIsError(t *testing.T) {
	f := newFixture()
	datum, err := f.rdr.Read(ioport.NewStringInputPort("(if 1)"))
	require.NoError(t, err)
	_, err = f.c.Compile(datum)
	assert.Error(t, err)
}

func TestCompileLambdaPlainFormals(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(lambda (x y) x)")
	l := node.(*ast.Lambda)
	require.Len(t, l.Formals, 2)
	assert.Equal(t, "x", l.Formals[0].Name)
	assert.Equal(t, "y", l.Formals[1].Name)
	assert.Nil(t, l.FormalsRest)
}

func TestCompileLambdaDottedFormals(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(lambda (x . y) x)")
	l := node.(*ast.Lambda)
	require.Len(t, l.Formals, 1)
	require.NotNil(t, l.FormalsRest)
	assert.Equal(t, "y", l.FormalsRest.Name)
}

func TestCompileLambdaRestKeywordFormals(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(lambda (x :rest y) x)")
	l := node.(*ast.Lambda)
	require.Len(t, l.Formals, 1)
	require.NotNil(t, l.FormalsRest)
	assert.Equal(t, "y", l.FormalsRest.Name)
}

func TestCompileLambdaRestAndDottedIsError(t *testing.T) {
	f := newFixture()
	datum, err := f.rdr.Read(ioport.NewStringInputPort("(lambda (x :rest y . z) x)"))
	require.NoError(t, err)
	_, err = f.c.Compile(datum)
	assert.Error(t, err)
}

func TestCompileDefineProcedureShorthand(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(define (f x) x)")
	d := node.(*ast.DefineVariable)
	assert.Equal(t, "f", d.Name.Name)
	l := d.Value.(*ast.Lambda)
	assert.Equal(t, "f", l.Name)
	require.Len(t, l.Formals, 1)
}

func TestAnalyzeTailIfBranches(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(if a b c)")
	compiler.AnalyzeTail(node)
	i := node.(*ast.If)
	assert.False(t, i.Test.IsTail())
	assert.True(t, i.Then.IsTail())
	assert.True(t, i.Else.IsTail())
}

func TestAnalyzeTailApplyOperandsNeverTail(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(f (g x))")
	compiler.AnalyzeTail(node)
	a := node.(*ast.Apply)
	assert.False(t, a.Operator.IsTail())
	assert.False(t, a.Operands[0].IsTail())
}

func TestAnalyzeTailLambdaBodyRootIsAlwaysTail(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(f (lambda (x) x))")
	compiler.AnalyzeTail(node)
	a := node.(*ast.Apply)
	l := a.Operands[0].(*ast.Lambda)
	assert.True(t, l.Body.Forms[0].IsTail())
}

func TestEmitProducesNonEmptyBytecode(t *testing.T) {
	f := newFixture()
	node := f.compile(t, "(+ 1 2)")
	compiler.AnalyzeTail(node)
	bc, err := compiler.Emit(node)
	require.NoError(t, err)
	assert.NotEmpty(t, bc.Code)
}
