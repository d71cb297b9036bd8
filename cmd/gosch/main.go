// Command gosch is the interpreter's CLI/REPL driver: flags -e CODE,
// -i, a positional script (or "-" for stdin), and trailing script args.
// Built on spf13/cobra + spf13/pflag; the REPL loop also dispatches the
// meta-commands ",help", ",paste", ",env" and ",quit".
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosch/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gosch [script] [-- args...]",
		Short:         "gosch is a small Scheme interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.Bind(cmd.Flags())
			cfg := config.Load(v, args)
			setupLogger(cfg.Trace)
			return runMain(cfg)
		},
	}
	config.RegisterFlags(root.Flags())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the gosch version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("gosch " + version)
			return nil
		},
	}
}

func setupLogger(trace bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if trace {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		Level(level).
		With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
