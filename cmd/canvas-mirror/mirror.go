package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/canvas-mirror/canvas-mirror/internal/canvas"
	"github.com/canvas-mirror/canvas-mirror/internal/config"
	"github.com/canvas-mirror/canvas-mirror/internal/database"
	"github.com/canvas-mirror/canvas-mirror/internal/log"
	"github.com/canvas-mirror/canvas-mirror/internal/mirror"
	"github.com/canvas-mirror/canvas-mirror/internal/report"
)

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Download course content into a local directory tree",
		Long: `Mirror fetches courses, modules, and items from a Canvas instance and
writes them as a local directory tree. Each module becomes a README.md
with pages, assignments, discussions, and quizzes converted to Markdown;
files the content references are downloaded into _files/ subdirectories
and deduplicated across the whole run.

Examples:
  # Mirror every course the token can access
  canvas-mirror mirror --api-url https://canvas.example.edu --api-key <token>

  # Mirror specific courses using environment credentials
  export CANVAS_API_URL=https://canvas.example.edu
  export CANVAS_API_KEY=<token>
  canvas-mirror mirror --course-ids 1234,5678

  # Write the tree somewhere else and keep a Markdown report
  canvas-mirror mirror -o ~/courses --report report.md

Configuration file (.canvas-mirror) example:
  defaults:
    skipTypes: ["Quiz"]
  courses:
    "1234":
      skipModules: ["Archive"]`,
		Args: cobra.NoArgs,
		RunE: runMirrorCmd,
	}

	// Connection flags
	cmd.Flags().StringP("api-url", "u", "",
		"Canvas instance root URL (or CANVAS_API_URL)")
	cmd.Flags().StringP("api-key", "k", "",
		"Canvas API access token (or CANVAS_API_KEY)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")

	// Target selection flags
	cmd.Flags().StringP("course-ids", "C", "",
		"Comma-separated course IDs to mirror (default: all accessible courses)")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Root directory for the mirrored tree")
	cmd.Flags().StringP("report", "r", "",
		"Write a Markdown run report to the specified file")
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON instead of plain text")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .canvas-mirror in current or home directory)")

	// Logging
	cmd.Flags().StringP("log-level", "l", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")

	return cmd
}

// runMirrorCmd executes the mirror command.
func runMirrorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	verbose := getVerboseFlag(cmd)
	if verbose {
		cfg.LogLevel = log.LevelDebug
	}
	logger := log.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	jsonSummary, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runMirror(ctx, cfg, logger, verbose, jsonSummary)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.APIURL, err = cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	courseIDs, err := cmd.Flags().GetString("course-ids")
	if err != nil {
		return nil, err
	}
	ids, invalid := config.ParseCourseIDs(courseIDs)
	for _, bad := range invalid {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring invalid course id %q\n", bad)
	}
	cfg.CourseIDs = ids

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.LogLevel, err = cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-course overrides from the config file.
	// An explicitly given path must exist; an absent default file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Courses, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Courses = &config.File{}
	}

	// Flags win over the environment.
	cfg.ApplyEnvironment()

	return cfg, nil
}

// runMirror executes the mirror run.
func runMirror(ctx context.Context, cfg *config.Config, logger *slog.Logger, verbose, jsonSummary bool) error {
	logger.Info("starting mirror",
		"apiURL", cfg.APIURL,
		"courseIDs", cfg.CourseIDs,
		"outputDir", cfg.OutputDir,
	)

	// Run history is auxiliary; a broken database never blocks the mirror.
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("run history disabled", "dir", cfg.DBDir, "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	client, err := canvas.NewClient(cfg.APIURL, cfg.APIKey, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create Canvas client: %w", err)
	}

	fmt.Printf("Mirroring to %s...\n", cfg.OutputDir)
	startTime := time.Now()

	summary, err := mirror.Run(ctx, cfg, client, logger)
	if err != nil {
		return fmt.Errorf("mirror failed: %w", err)
	}

	fmt.Printf("Completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err := outputSummary(cfg, summary, verbose, jsonSummary); err != nil {
		logger.Error("failed to output summary", "error", err)
	}

	if err := saveRunRecord(ctx, db, summary, logger); err != nil {
		logger.Error("failed to record run", "error", err)
	}

	return nil
}

// outputSummary writes the run summary to stdout and, when --report is
// set, a Markdown report to the given file.
func outputSummary(cfg *config.Config, summary *mirror.Summary, verbose, jsonSummary bool) error {
	var writers []report.Writer

	if jsonSummary {
		writers = append(writers, report.NewJSONWriter(os.Stdout))
	} else {
		writers = append(writers, report.NewSimpleWriter(os.Stdout, report.WithVerbose(verbose)))
	}

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		writers = append(writers, report.NewMarkdownWriter(f))
	}

	_, err := report.NewMultiWriter(writers...).Write(summary)
	return err
}

// saveRunRecord stores the run summary in the history database.
// If db is nil, this function is a no-op.
func saveRunRecord(ctx context.Context, db *database.MirrorDB, summary *mirror.Summary, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	run := &database.RunRecord{
		ID:              uuid.NewString(),
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		OutputDir:       summary.OutputDir,
		Courses:         summary.Courses,
		Modules:         summary.Modules,
		Items:           summary.Items,
		FilesDownloaded: summary.FilesDownloaded(),
		BytesDownloaded: summary.BytesDownloaded(),
		Errors:          summary.Errors,
	}

	files := make([]database.FileRecord, 0, len(summary.Downloads))
	for _, d := range summary.Downloads {
		files = append(files, database.FileRecord{
			RunID:     run.ID,
			FileID:    d.FileID,
			LocalPath: d.Path,
			Size:      d.Size,
		})
	}

	if err := db.RecordRun(ctx, run, files); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	logger.Info("run recorded", "runID", run.ID)
	return nil
}
