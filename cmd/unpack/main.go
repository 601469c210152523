// ABOUTME: CLI entry point for unpack: serve, chat, classify, mcp, config and version
// ABOUTME: Builds the cobra command tree; each subcommand lives in its own file

package main

import (
	"fmt"
	"os"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/unpack/internal/termfix"

	"github.com/spf13/cobra"

	pilog "github.com/mauromedda/unpack/internal/log"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "unpack",
		Short: "Ask clarifying questions before answering personal decisions",
		Long: `unpack sits in front of a language model. Prompts that look like personal
decisions get a short round of clarifying questions first; everything else is
answered directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				pilog.SetLevel(pilog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newClassifyCmd(),
		newMCPCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unpack %s (%s) built %s\n", version, commit, date)
		},
	}
}
