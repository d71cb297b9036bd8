// Package interp ties the reader, compiler and virtual machine into a
// single Interpreter: a read-compile-eval loop over a file or string,
// pairing a fresh compiled bytecode record with a fresh VM run at each
// top-level form.
package interp

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gosch/internal/xerrors"
	"gosch/pkg/ast"
	"gosch/pkg/builtin"
	"gosch/pkg/compiler"
	"gosch/pkg/ioport"
	"gosch/pkg/reader"
	"gosch/pkg/value"
)

// Interpreter owns the shared process-wide state: the symbol/keyword
// tables, the compile-time special-form bindings, and the global
// environment every top-level form's fresh VM runs against.
type Interpreter struct {
	Symbols  *value.SymbolTable
	Keywords *value.KeywordTable
	Global   *value.Environment

	forms    *compiler.SpecialForms
	reader   *reader.Reader
	compiler *compiler.Compiler
	trace    bool
	loadPath []string
	logger   zerolog.Logger
}

// Option configures a new Interpreter.
type Option func(*Interpreter)

// WithTrace enables VM instruction tracing via zerolog debug logging.
func WithTrace(trace bool) Option {
	return func(i *Interpreter) { i.trace = trace }
}

// WithLoadPath sets the directories `load` searches, in order.
func WithLoadPath(dirs []string) Option {
	return func(i *Interpreter) { i.loadPath = dirs }
}

// New builds an Interpreter with a fresh global environment populated
// by pkg/builtin's default registry.
func New(opts ...Option) *Interpreter {
	symbols := value.NewSymbolTable()
	keywords := value.NewKeywordTable()
	forms := compiler.NewSpecialForms(symbols)
	global := value.NewEnvironment(nil)

	i := &Interpreter{
		Symbols:  symbols,
		Keywords: keywords,
		Global:   global,
		forms:    forms,
		reader:   reader.New(symbols, keywords),
		compiler: compiler.New(symbols, keywords, forms),
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	builtin.Install(global, symbols, i)
	return i
}

// EvalDatum compiles and runs one already-read datum to completion,
// returning its result value.
func (i *Interpreter) EvalDatum(datum value.Value) (value.Value, error) {
	node, err := i.compiler.Compile(datum)
	if err != nil {
		return nil, err
	}
	bc, err := compiler.Emit(withTopLevelRet(node))
	if err != nil {
		return nil, err
	}
	return i.run(bc)
}

// withTopLevelRet wraps node as a single-form block and re-runs
// AnalyzeTail over it, so a bare top-level form is treated as tail
// position the same way a lambda body's last form is: a top-level
// Apply therefore emits TAIL_CALL rather than CALL, letting tail calls
// through `load`-ed code and the REPL run in bounded call-stack depth.
// When that TAIL_CALL's target is a host procedure, the VM's tail-call
// epilogue notices the call stack is empty and ends the run with the
// result exactly as an ordinary RET would.
func withTopLevelRet(node ast.Node) ast.Node {
	block := &ast.Block{Forms: []ast.Node{node}}
	compiler.AnalyzeTail(block)
	return block
}

func (i *Interpreter) run(bc *value.Bytecode) (value.Value, error) {
	return runBytecode(bc, i.Global, i.trace)
}

// EvalPort reads and evaluates every top-level form from src in order,
// returning the last result (value.Empty if src had no forms). A
// reader/compile/eval error aborts immediately, skipping the forms
// after it. cmd/gosch's REPL calls EvalString once per input line, so
// an error there discards the rest of that line only.
func (i *Interpreter) EvalPort(src ioport.CharSource) (value.Value, error) {
	result := value.Value(value.Empty)
	for {
		datum, err := i.reader.Read(src)
		if err != nil {
			return nil, err
		}
		if value.IsEOF(datum) {
			return result, nil
		}
		result, err = i.EvalDatum(datum)
		if err != nil {
			return nil, err
		}
	}
}

// ReadOne reads a single datum from src, exposed so a REPL can read and
// eval one form at a time with recovery between forms.
func (i *Interpreter) ReadOne(src ioport.CharSource) (value.Value, error) {
	return i.reader.Read(src)
}

// EvalString evaluates every top-level form in s.
func (i *Interpreter) EvalString(s string) (value.Value, error) {
	return i.EvalPort(ioport.NewStringInputPort(s))
}

// EvalFile reads and evaluates path, resolving relative paths against
// the current directory (Load uses the configured load path instead).
func (i *Interpreter) EvalFile(path string) (value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Eval("cannot open %s: %v", path, err)
	}
	defer f.Close()
	return i.EvalPort(ioport.NewReaderPort(f))
}

// Load implements builtin.Loader for the `load` host procedure: it
// resolves a relative path against the working directory first, then
// against each configured load-path directory in order, and evaluates
// the first file found.
func (i *Interpreter) Load(path string) error {
	if filepath.IsAbs(path) {
		_, err := i.EvalFile(path)
		return err
	}
	candidates := append([]string{"."}, i.loadPath...)
	for _, dir := range candidates {
		full := filepath.Join(dir, path)
		if _, statErr := os.Stat(full); statErr == nil {
			_, err := i.EvalFile(full)
			return err
		}
	}
	return xerrors.Eval("load: cannot find %s on load path", path)
}
