// Package ioport implements the minimal character source/sink interfaces
// the reader and writer consume, plus the concrete port values the
// builtin registry exposes to Scheme code: string ports and the
// standard input/output ports, built on bufio's buffered readers and
// writers with one rune of pushback for Peek.
package ioport

import (
	"bufio"
	"io"
	"strings"

	"gosch/pkg/value"
)

// CharSource is the character source contract the reader consumes.
type CharSource interface {
	// Peek returns the next rune without consuming it, and false at EOS.
	Peek() (rune, bool)
	// Advance consumes and returns the next rune; it is idempotent after
	// end of stream (repeated calls keep returning 0, false).
	Advance() (rune, bool)
	// ReadLine consumes through the next newline (inclusive) or EOS.
	ReadLine() (string, bool)
}

// CharSink is the character sink contract the writer consumes.
type CharSink interface {
	Write(s string) error
	Newline() error
	Flush() error
}

// Port is a port value: a CharSource, a CharSink, both, or neither
// (closed). It embeds value.Tagged so it satisfies value.Value despite
// living outside the value package.
type Port struct {
	value.Tagged

	reader   *bufio.Reader
	writer   *bufio.Writer
	readable bool
	writable bool
	peeked   *rune
	atEOF    bool
	sb       *strings.Builder
}

// NewReaderPort wraps r as a readable-only port.
func NewReaderPort(r io.Reader) *Port {
	return &Port{reader: bufio.NewReader(r), readable: true}
}

// NewWriterPort wraps w as a writable-only port.
func NewWriterPort(w io.Writer) *Port {
	return &Port{writer: bufio.NewWriter(w), writable: true}
}

// NewStringInputPort makes a readable port over a fixed string, as
// `open-input-string` does.
func NewStringInputPort(s string) *Port {
	return NewReaderPort(strings.NewReader(s))
}

// NewStringOutputPort makes a writable port that accumulates into an
// in-memory buffer retrievable with String, as `open-output-string`/
// `get-output-string` do.
func NewStringOutputPort() *Port {
	var sb strings.Builder
	p := &Port{writer: bufio.NewWriter(&sb), writable: true}
	p.sb = &sb
	return p
}

// String returns the accumulated output of a string output port.
func (p *Port) String() string {
	if p.sb == nil {
		return ""
	}
	p.writer.Flush()
	return p.sb.String()
}

// Readable reports whether p supports Peek/Advance/ReadLine.
func (p *Port) Readable() bool { return p.readable }

// Writable reports whether p supports Write/Newline/Flush.
func (p *Port) Writable() bool { return p.writable }

// Peek returns the next rune without consuming it.
func (p *Port) Peek() (rune, bool) {
	if p.peeked != nil {
		return *p.peeked, !p.atEOF
	}
	r, _, err := p.reader.ReadRune()
	if err != nil {
		p.atEOF = true
		p.peeked = new(rune)
		return 0, false
	}
	p.peeked = &r
	return r, true
}

// Advance consumes and returns the next rune.
func (p *Port) Advance() (rune, bool) {
	if p.peeked != nil {
		r, ok := *p.peeked, !p.atEOF
		p.peeked = nil
		return r, ok
	}
	r, _, err := p.reader.ReadRune()
	if err != nil {
		p.atEOF = true
		return 0, false
	}
	return r, true
}

// ReadLine reads through the next newline, inclusive.
func (p *Port) ReadLine() (string, bool) {
	var sb strings.Builder
	if p.peeked != nil {
		r := *p.peeked
		atEOF := p.atEOF
		p.peeked = nil
		if atEOF {
			return "", false
		}
		sb.WriteRune(r)
		if r == '\n' {
			return sb.String(), true
		}
	}
	line, err := p.reader.ReadString('\n')
	sb.WriteString(line)
	if sb.Len() == 0 && err != nil {
		return "", false
	}
	return sb.String(), true
}

// Write appends s to the port's sink.
func (p *Port) Write(s string) error {
	_, err := p.writer.WriteString(s)
	return err
}

// Newline writes a single "\n".
func (p *Port) Newline() error {
	return p.Write("\n")
}

// Flush flushes any buffered output.
func (p *Port) Flush() error {
	return p.writer.Flush()
}

// Close releases the port's underlying resources, where applicable.
func (p *Port) Close() error {
	if p.writer != nil {
		return p.writer.Flush()
	}
	return nil
}

// IsPort reports whether v is a port.
func IsPort(v value.Value) bool {
	_, ok := v.(*Port)
	return ok
}
