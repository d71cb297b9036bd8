package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"gosch/internal/config"
	"gosch/pkg/interp"
	"gosch/pkg/ioport"
	"gosch/pkg/value"
	"gosch/pkg/writer"
)

// runMain implements the whole CLI surface: -e args evaluated first,
// then the positional script (or "-" for stdin), then optionally the
// REPL. A script/eval error exits non-zero immediately (batch mode);
// interactive REPL errors print a diagnostic and continue.
func runMain(cfg config.Config) error {
	it := interp.New(interp.WithTrace(cfg.Trace), interp.WithLoadPath(cfg.LoadPath))
	bindCommandLine(it, cfg)

	for _, code := range cfg.Eval {
		if _, err := it.EvalString(code); err != nil {
			return err
		}
	}

	ranScript := false
	if cfg.Script != "" {
		ranScript = true
		if err := evalScript(it, cfg.Script); err != nil {
			return err
		}
	}

	if cfg.REPL || (!ranScript && len(cfg.Eval) == 0) {
		runREPL(it)
	}
	return nil
}

func bindCommandLine(it *interp.Interpreter, cfg config.Config) {
	args := make([]value.Value, len(cfg.ScriptArgs))
	for i, a := range cfg.ScriptArgs {
		args[i] = value.String(a)
	}
	it.Global.Define(it.Symbols.Intern("command-line"), value.FromSlice(args))
}

func evalScript(it *interp.Interpreter, script string) error {
	if script == "-" {
		_, err := it.EvalPort(ioport.NewReaderPort(os.Stdin))
		return err
	}
	_, err := it.EvalFile(script)
	return err
}

// runREPL drives the interactive read-eval-print loop: a prompt only
// when stdin is a terminal (x/term), per-line error recovery, and the
// ",help"/",paste"/",env"/",quit" meta-commands.
func runREPL(it *interp.Interpreter) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if interactive {
		fmt.Println("gosch — a small Scheme interpreter")
		fmt.Println("Type ,help for REPL commands.")
	}

	for {
		if interactive {
			fmt.Print("gosch> ")
		}
		if !scanner.Scan() {
			if interactive {
				fmt.Println()
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ",") {
			if handleMeta(it, line) {
				continue
			}
		}

		result, err := it.EvalString(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(writer.WriteString(result))
	}
}

func handleMeta(it *interp.Interpreter, line string) bool {
	switch strings.TrimSpace(line) {
	case ",help":
		fmt.Println(",help        show this message")
		fmt.Println(",paste       read Scheme source from the system clipboard and evaluate it")
		fmt.Println(",env         list the names bound in the global environment")
		fmt.Println(",quit        exit the REPL")
		return true
	case ",quit", ",exit":
		os.Exit(0)
		return true
	case ",paste":
		text, err := clipboard.ReadAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, "clipboard error:", err)
			return true
		}
		result, err := it.EvalString(text)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return true
		}
		fmt.Println(writer.WriteString(result))
		return true
	case ",env":
		for sym := range it.Global.Bindings {
			fmt.Println(sym.Name)
		}
		return true
	default:
		return false
	}
}
