package writer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosch/pkg/ioport"
	"gosch/pkg/reader"
	"gosch/pkg/value"
	"gosch/pkg/writer"
)

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	symbols := value.NewSymbolTable()
	keywords := value.NewKeywordTable()
	r := reader.New(symbols, keywords)
	datum, err := r.Read(ioport.NewStringInputPort(src))
	require.NoError(t, err)
	return writer.WriteString(datum)
}

func TestWriteReadRoundTrip(t *testing.T) {
	cases := []string{
		"42",
		"-17",
		"#t",
		"#f",
		"foo",
		"(1 2 3)",
		"(1 . 2)",
		"(a (b c) d)",
	}
	for _, src := range cases {
		assert.Equal(t, src, roundTrip(t, src))
	}
}

func TestWriteQuoteShorthand(t *testing.T) {
	assert.Equal(t, "'foo", roundTrip(t, "'foo"))
}

func TestDisplayStringUnquoted(t *testing.T) {
	assert.Equal(t, "hello", writer.DisplayString(value.String("hello")))
	assert.Equal(t, `"hello"`, writer.WriteString(value.String("hello")))
}

func TestWriteBytevector(t *testing.T) {
	bv := &value.Bytevector{Bytes: []byte{1, 2, 3}}
	assert.Equal(t, "#u8(1 2 3)", writer.WriteString(bv))
}

func TestWriteEmptyList(t *testing.T) {
	assert.Equal(t, "()", writer.WriteString(value.Empty))
}
