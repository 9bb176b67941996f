package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wstok/internal/version"
)

// errHasDiagnostics means error diagnostics were already printed; main only sets the exit code.
var errHasDiagnostics = errors.New("errors reported")

// newRootCmd builds the command tree with its persistent flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wstok",
		Short:         "Whitespace tokenizer",
		Long:          `wstok splits text into maximal runs of non-whitespace characters and reports each with its start offset`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Добавляем команды
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	root.PersistentFlags().String("config", "", "config file (default: nearest wstok.toml or .wstok.yaml)")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr, *.ndjson for NDJSON)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail)")
	return root
}

// main executes the root command. Any error, including error diagnostics,
// exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errHasDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
