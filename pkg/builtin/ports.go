package builtin

import (
	"os"

	"gosch/internal/xerrors"
	"gosch/pkg/ioport"
	"gosch/pkg/value"
)

// installPorts exposes ioport.Port as Scheme data, wrapping stdin/stdout
// at interpreter startup.
func (r *registry) installPorts() {
	stdin := ioport.NewReaderPort(os.Stdin)
	stdout := ioport.NewWriterPort(os.Stdout)

	r.define("open-input-string", func(args []value.Value) (value.Value, error) {
		v, err := arity1("open-input-string", args)
		if err != nil {
			return nil, err
		}
		s, ok := v.(value.String)
		if !ok {
			return nil, xerrors.Eval("open-input-string: argument must be a string")
		}
		return ioport.NewStringInputPort(string(s)), nil
	})

	r.define("open-output-string", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, xerrors.Eval("open-output-string: expected no arguments")
		}
		return ioport.NewStringOutputPort(), nil
	})

	r.define("get-output-string", func(args []value.Value) (value.Value, error) {
		p, err := argPort("get-output-string", args)
		if err != nil {
			return nil, err
		}
		return value.String(p.String()), nil
	})

	r.define("current-input-port", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, xerrors.Eval("current-input-port: expected no arguments")
		}
		return stdin, nil
	})

	r.define("current-output-port", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, xerrors.Eval("current-output-port: expected no arguments")
		}
		return stdout, nil
	})

	r.define("read-char", func(args []value.Value) (value.Value, error) {
		p, err := argPort("read-char", args)
		if err != nil {
			return nil, err
		}
		ch, ok := p.Advance()
		if !ok {
			return value.EOF, nil
		}
		return value.Char(ch), nil
	})

	r.define("peek-char", func(args []value.Value) (value.Value, error) {
		p, err := argPort("peek-char", args)
		if err != nil {
			return nil, err
		}
		ch, ok := p.Peek()
		if !ok {
			return value.EOF, nil
		}
		return value.Char(ch), nil
	})

	r.define("write-char", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("write-char: expected exactly 2 arguments, got %d", len(args))
		}
		ch, ok := args[0].(value.Char)
		if !ok {
			return nil, xerrors.Eval("write-char: first argument must be a character")
		}
		p, ok := args[1].(*ioport.Port)
		if !ok {
			return nil, xerrors.Eval("write-char: second argument must be a port")
		}
		if err := p.Write(string(rune(ch))); err != nil {
			return nil, xerrors.Eval("write-char: %v", err)
		}
		return value.False, nil
	})

	r.define("write-string", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, xerrors.Eval("write-string: expected exactly 2 arguments, got %d", len(args))
		}
		s, ok := args[0].(value.String)
		if !ok {
			return nil, xerrors.Eval("write-string: first argument must be a string")
		}
		p, ok := args[1].(*ioport.Port)
		if !ok {
			return nil, xerrors.Eval("write-string: second argument must be a port")
		}
		if err := p.Write(string(s)); err != nil {
			return nil, xerrors.Eval("write-string: %v", err)
		}
		return value.False, nil
	})

	r.define("newline", func(args []value.Value) (value.Value, error) {
		p := stdout
		if len(args) == 1 {
			var ok bool
			p, ok = args[0].(*ioport.Port)
			if !ok {
				return nil, xerrors.Eval("newline: argument must be a port")
			}
		} else if len(args) != 0 {
			return nil, xerrors.Eval("newline: expected 0 or 1 arguments, got %d", len(args))
		}
		if err := p.Newline(); err != nil {
			return nil, xerrors.Eval("newline: %v", err)
		}
		return value.False, nil
	})

	r.define("close-port", func(args []value.Value) (value.Value, error) {
		p, err := argPort("close-port", args)
		if err != nil {
			return nil, err
		}
		if err := p.Close(); err != nil {
			return nil, xerrors.Eval("close-port: %v", err)
		}
		return value.False, nil
	})
}

func argPort(name string, args []value.Value) (*ioport.Port, error) {
	v, err := arity1(name, args)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*ioport.Port)
	if !ok {
		return nil, xerrors.Eval("%s: argument must be a port", name)
	}
	return p, nil
}
