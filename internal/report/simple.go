package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/canvas-mirror/canvas-mirror/internal/mirror"
)

// SimpleWriter outputs human-readable text summaries for terminal
// display. Plain ASCII rather than ANSI color so the output pipes
// cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-file download listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-file download listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *mirror.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                 CANVAS MIRROR SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Output Directory: %s\n", summary.OutputDir))
	sb.WriteString(fmt.Sprintf("Started:          %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", summary.Duration().Round(time.Millisecond)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Courses:          %d\n", summary.Courses))
	sb.WriteString(fmt.Sprintf("  Modules:          %d\n", summary.Modules))
	sb.WriteString(fmt.Sprintf("  Items:            %d\n", summary.Items))
	sb.WriteString(fmt.Sprintf("  Files downloaded: %d (%s)\n", summary.FilesDownloaded(), formatBytes(summary.BytesDownloaded())))
	sb.WriteString(fmt.Sprintf("  Errors:           %d\n", summary.Errors))
	sb.WriteString("\n")

	if w.verbose && len(summary.Downloads) > 0 {
		sb.WriteString(strings.Repeat("-", 60))
		sb.WriteString("\n")
		sb.WriteString("DOWNLOADS\n")
		sb.WriteString(strings.Repeat("-", 60))
		sb.WriteString("\n\n")
		for _, d := range summary.Downloads {
			sb.WriteString(fmt.Sprintf("  %s (%s)\n", d.Path, formatBytes(d.Size)))
		}
		sb.WriteString("\n")
	}

	if summary.Errors > 0 {
		sb.WriteString("Some content could not be mirrored; see the log for details.\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// formatBytes renders a byte count in a human-friendly unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
