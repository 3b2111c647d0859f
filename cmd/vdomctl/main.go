package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "vdomctl",
		Short: "Reconcile tree descriptions into a live document",
		Long: `vdomctl drives the vdom reconciler from the command line.

Tree descriptions are JSON or YAML files:

  tag: ul
  props: {class: list}
  children:
    - {tag: li, props: {key: a}, children: [first]}
    - {tag: li, props: {key: b}, children: [second]}

Each file is one pass. The reconciler patches an in-memory document and
vdomctl reports what it did.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configDir, "config", "c", "", "Directory containing reconcile.json (default: nearest parent)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format: text, json")
	flags.BoolVar(&g.propSync, "prop-sync", false, "Update elements in place when only their props change")

	rootCmd.AddCommand(
		applyCmd(g),
		watchCmd(g),
		serveCmd(g),
		versionCmd(g),
	)
	return rootCmd
}

// success prints a success message.
func (g *globals) success(format string, args ...any) {
	fmt.Fprintf(g.stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (g *globals) info(format string, args ...any) {
	fmt.Fprintf(g.stderr, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (g *globals) warn(format string, args ...any) {
	fmt.Fprintf(g.stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
