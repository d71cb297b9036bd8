package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosch/pkg/interp"
	"gosch/pkg/value"
	"gosch/pkg/writer"
)

func evalString(t *testing.T, src string) value.Value {
	t.Helper()
	it := interp.New()
	result, err := it.EvalString(src)
	require.NoError(t, err)
	return result
}

func TestArithmetic(t *testing.T) {
	assert.Equal(t, int64(18), evalString(t, "(+ 5 6 7)").(*value.Integer).Int64())
	assert.Equal(t, int64(-8), evalString(t, "(- 5 6 7)").(*value.Integer).Int64())
	assert.Equal(t, int64(210), evalString(t, "(* 5 6 7)").(*value.Integer).Int64())
}

func TestPairsAndLists(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString("(define x (cons 5 (cons 3 '())))")
	require.NoError(t, err)

	car, err := it.EvalString("(car x)")
	require.NoError(t, err)
	assert.Equal(t, int64(5), car.(*value.Integer).Int64())

	isPair, err := it.EvalString("(pair? (cdr x))")
	require.NoError(t, err)
	assert.Equal(t, value.True, isPair)
}

func TestIfTruthiness(t *testing.T) {
	assert.Equal(t, int64(3), evalString(t, "(if #f 2 3)").(*value.Integer).Int64())
	assert.Equal(t, int64(2), evalString(t, "(if #t 2 3)").(*value.Integer).Int64())
	// only #f is false: integer 0 is truthy.
	assert.Equal(t, int64(2), evalString(t, "(if 0 2 3)").(*value.Integer).Int64())
}

func TestLambdaRestFormals(t *testing.T) {
	result := evalString(t, "((lambda (x :rest y) y) 1 2 3)")
	assert.Equal(t, "(2 3)", writer.WriteString(result))
}

func TestLambdaDottedFormals(t *testing.T) {
	result := evalString(t, "((lambda (x . y) y) 1 2 3)")
	assert.Equal(t, "(2 3)", writer.WriteString(result))
}

func TestLexicalScope(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`
		(define (make-adder n)
		  (lambda (x) (+ x n)))
		(define add5 (make-adder 5))
	`)
	require.NoError(t, err)

	result, err := it.EvalString("(add5 10)")
	require.NoError(t, err)
	assert.Equal(t, int64(15), result.(*value.Integer).Int64())

	// a second closure over a different n does not disturb add5's capture.
	_, err = it.EvalString("(define add100 (make-adder 100))")
	require.NoError(t, err)
	again, err := it.EvalString("(add5 10)")
	require.NoError(t, err)
	assert.Equal(t, int64(15), again.(*value.Integer).Int64())
}

func TestTailRecursionRunsUnbounded(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`
		(define (sum-to n acc)
		  (if (= n 0)
		      acc
		      (sum-to (- n 1) (+ acc n))))
	`)
	require.NoError(t, err)

	// 5050 is the textbook sum-to-100 result; the call is fully
	// tail-recursive, so this must not exhaust the call stack.
	result, err := it.EvalString("(sum-to 100 0)")
	require.NoError(t, err)
	assert.Equal(t, int64(5050), result.(*value.Integer).Int64())

	// A much larger n would overflow a non-tail-recursive VM's call
	// stack well before this; this exercises the bound in practice.
	big, err := it.EvalString("(sum-to 100000 0)")
	require.NoError(t, err)
	assert.Equal(t, int64(5000050000), big.(*value.Integer).Int64())
}

func TestSetBangMutatesEnclosingBinding(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`
		(define counter 0)
		(define (bump!) (set! counter (+ counter 1)))
		(bump!)
		(bump!)
		(bump!)
	`)
	require.NoError(t, err)
	result, err := it.EvalString("counter")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.(*value.Integer).Int64())
}

func TestUnboundVariableIsError(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString("never-defined")
	assert.Error(t, err)
}

func TestEqOnIntegersIsByValue(t *testing.T) {
	// Freshly allocated big.Int-backed Integers from separate arithmetic
	// still compare equal under eq?.
	result := evalString(t, "(eq? (+ 1 1) (+ 1 1))")
	assert.Equal(t, value.True, result)
}

func TestEqOnPairsIsByIdentity(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString("(define p (cons 1 2))")
	require.NoError(t, err)
	same, err := it.EvalString("(eq? p p)")
	require.NoError(t, err)
	assert.Equal(t, value.True, same)

	distinct, err := it.EvalString("(eq? (cons 1 2) (cons 1 2))")
	require.NoError(t, err)
	assert.Equal(t, value.False, distinct)
}

func TestErrorBuiltinRaisesUserError(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`(error "boom")`)
	assert.Error(t, err)
}
