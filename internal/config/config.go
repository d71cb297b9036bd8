// Package config wires cmd/gosch's flags through pflag/viper, layering
// environment-variable and default-value precedence over plain flag
// parsing.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds cmd/gosch's resolved flags, after pflag parsing and
// viper environment-variable overrides have both been applied.
type Config struct {
	// Eval is the -e CODE argument: code to evaluate before anything
	// else, may be given multiple times.
	Eval []string
	// REPL, set by -i, drops into an interactive loop after the script
	// (or -e arguments) finish.
	REPL bool
	// Trace enables VM instruction-level tracing.
	Trace bool
	// LoadPath is the ordered list of directories `load` searches.
	LoadPath []string
	// Script is the positional script argument ("-" for stdin, "" for
	// none).
	Script string
	// ScriptArgs are the trailing arguments passed through to the
	// script as the `command-line` global binding.
	ScriptArgs []string
}

// RegisterFlags declares gosch's flags on fs. Call once per command,
// before the command parses args.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringArrayP("eval", "e", nil, "evaluate CODE before running the script")
	fs.BoolP("repl", "i", false, "enter the REPL after running the script")
	fs.Bool("trace", false, "log VM instructions as they execute")
	fs.StringSlice("load-path", nil, "directories searched by (load ...)")
}

// Bind binds a fresh viper instance to fs's already-parsed flags and to
// the GOSCH_* environment variables (GOSCH_LOAD_PATH, GOSCH_TRACE),
// giving flag > env > default precedence.
func Bind(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("gosch")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)
	return v
}

// Load reads the bound viper instance plus the remaining positional
// arguments (after flag parsing) into a Config.
func Load(v *viper.Viper, args []string) Config {
	cfg := Config{
		Eval:     v.GetStringSlice("eval"),
		REPL:     v.GetBool("repl"),
		Trace:    v.GetBool("trace"),
		LoadPath: v.GetStringSlice("load-path"),
	}
	if len(args) > 0 {
		cfg.Script = args[0]
		cfg.ScriptArgs = args[1:]
	}
	return cfg
}
