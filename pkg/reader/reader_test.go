package reader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosch/pkg/ioport"
	"gosch/pkg/reader"
	"gosch/pkg/value"
)

func newReader() *reader.Reader {
	return reader.New(value.NewSymbolTable(), value.NewKeywordTable())
}

func readOne(t *testing.T, r *reader.Reader, src string) value.Value {
	t.Helper()
	v, err := r.Read(ioport.NewStringInputPort(src))
	require.NoError(t, err)
	return v
}

func TestReadIntegerLiterals(t *testing.T) {
	r := newReader()

	cases := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"123", 123},
		{"+0x1aB", 427},
		{"0x1aB", 427},
		{"-0x1aB", -427},
	}
	for _, c := range cases {
		v := readOne(t, r, c.src)
		n, ok := v.(*value.Integer)
		require.Truef(t, ok, "expected integer for %q, got %T", c.src, v)
		assert.Equal(t, c.want, n.Int64())
	}
}

func TestReadSymbolNotNumber(t *testing.T) {
	r := newReader()
	v := readOne(t, r, "123abc")
	sym, ok := v.(*value.Symbol)
	require.True(t, ok)
	assert.Equal(t, "123abc", sym.Name)
}

func TestSymbolIdentity(t *testing.T) {
	r := newReader()
	a := readOne(t, r, "foo")
	b := readOne(t, r, "foo")
	assert.Same(t, a, b)
}

func TestReadList(t *testing.T) {
	r := newReader()
	v := readOne(t, r, "(1 2 3)")
	items, tail := value.ToSlice(v)
	require.True(t, value.IsEmpty(tail))
	require.Len(t, items, 3)
	for i, want := range []int64{1, 2, 3} {
		n := items[i].(*value.Integer)
		assert.Equal(t, want, n.Int64())
	}
}

func TestReadDottedPair(t *testing.T) {
	r := newReader()
	v := readOne(t, r, "(1 . 2)")
	p, ok := v.(*value.Pair)
	require.True(t, ok)
	assert.Equal(t, int64(1), p.Car.(*value.Integer).Int64())
	assert.Equal(t, int64(2), p.Cdr.(*value.Integer).Int64())
}

func TestReadNestedDottedPairInList(t *testing.T) {
	// ((1 . 2)) is a proper one-element list whose sole element is the
	// pair (1 . 2).
	r := newReader()
	v := readOne(t, r, "((1 . 2))")
	items, tail := value.ToSlice(v)
	require.True(t, value.IsEmpty(tail))
	require.Len(t, items, 1)
	_, ok := items[0].(*value.Pair)
	assert.True(t, ok)
}

func TestReadQuoteShorthand(t *testing.T) {
	r := newReader()
	v := readOne(t, r, "'foo")
	items, tail := value.ToSlice(v)
	require.True(t, value.IsEmpty(tail))
	require.Len(t, items, 2)
	sym := items[0].(*value.Symbol)
	assert.Equal(t, "quote", sym.Name)
}

func TestReadBooleans(t *testing.T) {
	r := newReader()
	assert.Equal(t, value.True, readOne(t, r, "#t"))
	assert.Equal(t, value.False, readOne(t, r, "#f"))
}

func TestReadBooleanFollowedBySymbolCharIsError(t *testing.T) {
	r := newReader()
	_, err := r.Read(ioport.NewStringInputPort("#tx"))
	assert.Error(t, err)
}

func TestReadString(t *testing.T) {
	r := newReader()
	v := readOne(t, r, `"hello"`)
	assert.Equal(t, value.String("hello"), v)
}

func TestReadKeyword(t *testing.T) {
	r := newReader()
	v := readOne(t, r, ":rest")
	kw, ok := v.(*value.Keyword)
	require.True(t, ok)
	assert.Equal(t, ":rest", kw.Name)
}

func TestReadEOF(t *testing.T) {
	r := newReader()
	v := readOne(t, r, "   ; just a comment\n")
	assert.True(t, value.IsEOF(v))
}

func TestReadUnexpectedCloseParen(t *testing.T) {
	r := newReader()
	_, err := r.Read(ioport.NewStringInputPort(")"))
	assert.Error(t, err)
}

func TestReadBareDotIsError(t *testing.T) {
	r := newReader()
	_, err := r.Read(ioport.NewStringInputPort("."))
	assert.Error(t, err)
}
