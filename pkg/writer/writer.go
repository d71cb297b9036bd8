// Package writer implements the dual write/display formatter: write
// produces a readable form (strings quoted, characters as #\c), display
// produces the human-facing form.
package writer

import (
	"fmt"
	"strings"

	"gosch/pkg/ioport"
	"gosch/pkg/value"
)

// Write renders v in readable form to sink.
func Write(sink ioport.CharSink, v value.Value) error {
	return render(sink, v, true)
}

// Display renders v in human form to sink.
func Display(sink ioport.CharSink, v value.Value) error {
	return render(sink, v, false)
}

// WriteString renders v in readable form and returns it as a string,
// for callers (tests, the REPL's result echo) that want the text
// without wiring up a sink.
func WriteString(v value.Value) string {
	p := ioport.NewStringOutputPort()
	_ = Write(p, v)
	return p.String()
}

// DisplayString renders v in human form and returns it as a string.
func DisplayString(v value.Value) string {
	p := ioport.NewStringOutputPort()
	_ = Display(p, v)
	return p.String()
}

func render(sink ioport.CharSink, v value.Value, readable bool) error {
	switch x := v.(type) {
	case value.Boolean:
		if x {
			return sink.Write("#t")
		}
		return sink.Write("#f")

	case *value.Integer:
		return sink.Write(x.String())

	case value.String:
		if !readable {
			return sink.Write(string(x))
		}
		return sink.Write(quoteString(string(x)))

	case value.Char:
		if !readable {
			return sink.Write(string(rune(x)))
		}
		return sink.Write(fmt.Sprintf("#\\%c", rune(x)))

	case *value.Symbol:
		return sink.Write(x.Name)

	case *value.Keyword:
		return sink.Write(x.Name)

	case *value.Pair:
		return renderPair(sink, x, readable)

	case *value.Bytevector:
		return renderBytevector(sink, x)

	case *value.Closure:
		return sink.Write("#<closure>")

	case *value.Bytecode:
		return sink.Write("#<bytecode>")

	case *value.HostProc:
		return sink.Write(fmt.Sprintf("#<procedure %s>", x.Name))

	case *value.Environment:
		return sink.Write("#<environment>")

	default:
		if value.IsEmpty(v) {
			return sink.Write("()")
		}
		if value.IsEOF(v) {
			return sink.Write("#<eof>")
		}
		if ioport.IsPort(v) {
			return sink.Write("#<port>")
		}
		return sink.Write(fmt.Sprintf("#<%T>", v))
	}
}

// quoteString is deliberately minimal: the core reader performs no
// escape processing, so the writer's readable form doesn't need to
// escape embedded quotes either — round-tripping arbitrary strings
// containing `"` is out of scope, matching the reader's own limits.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(s)
	sb.WriteByte('"')
	return sb.String()
}

// quoteSymbolName: the quote symbol, interned once per reader/compiler pair, is recognized by
// name here rather than identity: the writer has no access to a
// specific SymbolTable and must work across any interned "quote".
const quoteSymbolName = "quote"

func renderPair(sink ioport.CharSink, p *value.Pair, readable bool) error {
	if sym, ok := p.Car.(*value.Symbol); ok && sym.Name == quoteSymbolName {
		if inner, ok := p.Cdr.(*value.Pair); ok && value.IsEmpty(inner.Cdr) {
			if err := sink.Write("'"); err != nil {
				return err
			}
			return render(sink, inner.Car, readable)
		}
	}

	if err := sink.Write("("); err != nil {
		return err
	}
	cur := value.Value(p)
	first := true
	for {
		pair, ok := cur.(*value.Pair)
		if !ok {
			break
		}
		if !first {
			if err := sink.Write(" "); err != nil {
				return err
			}
		}
		first = false
		if err := render(sink, pair.Car, readable); err != nil {
			return err
		}
		cur = pair.Cdr
	}
	if !value.IsEmpty(cur) {
		if err := sink.Write(" . "); err != nil {
			return err
		}
		if err := render(sink, cur, readable); err != nil {
			return err
		}
	}
	return sink.Write(")")
}

func renderBytevector(sink ioport.CharSink, bv *value.Bytevector) error {
	if err := sink.Write("#u8("); err != nil {
		return err
	}
	for i, b := range bv.Bytes {
		if i > 0 {
			if err := sink.Write(" "); err != nil {
				return err
			}
		}
		if err := sink.Write(fmt.Sprintf("%d", b)); err != nil {
			return err
		}
	}
	return sink.Write(")")
}
