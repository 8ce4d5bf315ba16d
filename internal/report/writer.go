package report

import (
	"io"

	"github.com/canvas-mirror/canvas-mirror/internal/mirror"
)

// Writer defines the interface for summary output.
// Implementations write run summaries in various formats.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *mirror.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously. This is how
// the CLI outputs to both the terminal and a report file in one pass.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(summary *mirror.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
