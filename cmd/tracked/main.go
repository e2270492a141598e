package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tracked/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// noColor is set by the --no-color flag.
var noColor bool

const banner = `
  ┌┬┐┬─┐┌─┐┌─┐┬┌─┌─┐┌┬┐
   │ ├┬┘├─┤│  ├┴┐├┤  ││
   ┴ ┴└─┴ ┴└─┘┴ ┴└─┘─┴┘
`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tracked",
		Short: "Mutation shorthands for reactive signals",
		Long: `tracked writes reactive signals in place with one-line shorthands.

Each shorthand (push, pop, extend, add, toggle, ...) performs exactly
one update of its signal, so subscribers are notified once per call.

Commands:
  demo     Run the counters scenario and print notification counts
  serve    Serve a counters board over HTTP and WebSocket
  init     Write a default tracked.json
  errors   List error codes or explain one
  version  Print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(),
		initCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

// paint wraps text in an ANSI color unless --no-color is set.
func paint(code, text string) string {
	if noColor {
		return text
	}
	return code + text + "\033[0m"
}
