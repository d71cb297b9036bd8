package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosch/pkg/interp"
	"gosch/pkg/value"
	"gosch/pkg/writer"
)

func eval(t *testing.T, src string) value.Value {
	t.Helper()
	it := interp.New()
	result, err := it.EvalString(src)
	require.NoError(t, err)
	return result
}

func TestDivisionExactOnly(t *testing.T) {
	assert.Equal(t, int64(3), eval(t, "(/ 6 2)").(*value.Integer).Int64())

	it := interp.New()
	_, err := it.EvalString("(/ 1 3)")
	assert.Error(t, err)

	_, err = it.EvalString("(/ 1 0)")
	assert.Error(t, err)
}

func TestQuotientRemainderModulo(t *testing.T) {
	assert.Equal(t, int64(2), eval(t, "(quotient 7 3)").(*value.Integer).Int64())
	assert.Equal(t, int64(1), eval(t, "(remainder 7 3)").(*value.Integer).Int64())
	assert.Equal(t, int64(2), eval(t, "(modulo -7 3)").(*value.Integer).Int64())
}

func TestComparisonChaining(t *testing.T) {
	assert.Equal(t, value.True, eval(t, "(< 1 2 3)"))
	assert.Equal(t, value.False, eval(t, "(< 1 3 2)"))
	assert.Equal(t, value.True, eval(t, "(= 2 2 2)"))
}

func TestPredicates(t *testing.T) {
	assert.Equal(t, value.True, eval(t, "(pair? (cons 1 2))"))
	assert.Equal(t, value.False, eval(t, "(pair? '())"))
	assert.Equal(t, value.True, eval(t, "(null? '())"))
	assert.Equal(t, value.True, eval(t, "(list? '(1 2 3))"))
	assert.Equal(t, value.False, eval(t, "(list? (cons 1 2))"))
	assert.Equal(t, value.True, eval(t, "(symbol? 'foo)"))
	assert.Equal(t, value.True, eval(t, "(procedure? car)"))
}

func TestBytevectors(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString("(define bv (make-bytevector 3 0))")
	require.NoError(t, err)
	_, err = it.EvalString("(bytevector-u8-set! bv 1 42)")
	require.NoError(t, err)
	result, err := it.EvalString("(bytevector-u8-ref bv 1)")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.(*value.Integer).Int64())
	assert.Equal(t, "#u8(0 42 0)", writer.WriteString(eval(t, "(bytevector 0 42 0)")))
}

func TestEnvironmentBuiltins(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString("(define e (empty-environment))")
	require.NoError(t, err)
	_, err = it.EvalString("(set-environment-binding! e 'x 10)")
	require.NoError(t, err)
	result, err := it.EvalString("(get-environment-binding e 'x)")
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.(*value.Integer).Int64())

	has, err := it.EvalString("(has-environment-binding? e 'y)")
	require.NoError(t, err)
	assert.Equal(t, value.False, has)
}

func TestRecords(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`
		(define point-type (make-record-type "point" '(x y)))
		(define make-point (record-constructor point-type))
		(define point? (record-predicate point-type))
		(define point-x (record-accessor point-type 'x))
		(define set-point-x! (record-modifier point-type 'x))
		(define p (make-point 1 2))
	`)
	require.NoError(t, err)

	isPoint, err := it.EvalString("(point? p)")
	require.NoError(t, err)
	assert.Equal(t, value.True, isPoint)

	x, err := it.EvalString("(point-x p)")
	require.NoError(t, err)
	assert.Equal(t, int64(1), x.(*value.Integer).Int64())

	_, err = it.EvalString("(set-point-x! p 99)")
	require.NoError(t, err)
	x2, err := it.EvalString("(point-x p)")
	require.NoError(t, err)
	assert.Equal(t, int64(99), x2.(*value.Integer).Int64())
}

func TestPortsStringRoundTrip(t *testing.T) {
	it := interp.New()
	_, err := it.EvalString(`
		(define out (open-output-string))
		(write-string "hello" out)
	`)
	require.NoError(t, err)
	result, err := it.EvalString("(get-output-string out)")
	require.NoError(t, err)
	assert.Equal(t, value.String("hello"), result)
}
