package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canvas-mirror/canvas-mirror/internal/config"
	"github.com/canvas-mirror/canvas-mirror/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists previous mirror runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous mirror runs",
		Long: `History lists previous mirror runs recorded in the local database,
newest first, with their totals.

Examples:
  # Show the ten most recent runs
  canvas-mirror history

  # Show more runs
  canvas-mirror history --limit 50

  # Show the files downloaded by a specific run
  canvas-mirror history --downloads <run-id>

  # Output in JSON format
  canvas-mirror history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list")
	cmd.Flags().StringP("downloads", "d", "",
		"List the files downloaded by the run with this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("downloads")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// History never creates the database: an absent file means no run
	// has been recorded yet, which is not an error.
	db, err := database.Open(config.XDGDataDir(), database.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			fmt.Println("No runs recorded yet. Use 'canvas-mirror mirror' to create one.")
			return nil
		}
		return fmt.Errorf("failed to open run-history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if runID != "" {
		return listRunDownloads(ctx, db, runID, jsonOutput)
	}
	return listRuns(ctx, db, limit, jsonOutput)
}

// listRuns prints the most recent runs, newest first.
func listRuns(ctx context.Context, db *database.MirrorDB, limit int, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Use 'canvas-mirror mirror' to create one.")
		return nil
	}

	fmt.Printf("Recent runs (%d):\n\n", len(runs))
	fmt.Printf("  %-36s  %-19s  %7s  %7s  %7s  %6s\n",
		"ID", "Date", "Courses", "Modules", "Files", "Errors")
	for _, run := range runs {
		fmt.Printf("  %-36s  %-19s  %7d  %7d  %7d  %6d\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Courses,
			run.Modules,
			run.FilesDownloaded,
			run.Errors,
		)
	}
	return nil
}

// listRunDownloads prints the files downloaded by a specific run.
func listRunDownloads(ctx context.Context, db *database.MirrorDB, runID string, jsonOutput bool) error {
	files, err := db.ListDownloads(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to list downloads: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(files)
	}

	if len(files) == 0 {
		fmt.Printf("No downloads recorded for run %s\n", runID)
		return nil
	}

	fmt.Printf("Downloads for run %s (%d files):\n\n", runID, len(files))
	for _, f := range files {
		fmt.Printf("  %s (%d bytes)\n", f.LocalPath, f.Size)
	}
	return nil
}
