// Package main provides the entry point for the canvas-mirror CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for canvas-mirror.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canvas-mirror",
		Short: "Mirror Canvas LMS course content to local Markdown",
		Long: `canvas-mirror downloads Canvas LMS course content into a local directory
tree. Each module becomes a README.md with pages, assignments, discussions,
and quizzes converted to Markdown, and every referenced file is downloaded
next to it, deduplicated across the whole run.

Credentials can be given via flags or the CANVAS_API_URL and CANVAS_API_KEY
environment variables.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewMirrorCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
