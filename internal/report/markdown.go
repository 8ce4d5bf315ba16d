package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/canvas-mirror/canvas-mirror/internal/mirror"
)

// MarkdownWriter outputs summaries in Markdown format, intended for the
// --report file.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *mirror.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Canvas Mirror Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Output Directory", "`" + summary.OutputDir + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().String()},
			{"Status", statusText(summary)},
		},
	})
	md.PlainText("")

	md.H2("Totals")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Courses", strconv.Itoa(summary.Courses)},
			{"Modules", strconv.Itoa(summary.Modules)},
			{"Items", strconv.Itoa(summary.Items)},
			{"Files downloaded", strconv.Itoa(summary.FilesDownloaded())},
			{"Bytes downloaded", formatBytes(summary.BytesDownloaded())},
			{"Errors", strconv.Itoa(summary.Errors)},
		},
	})
	md.PlainText("")

	w.writeDownloads(md, summary)

	return len(md.String()), md.Build()
}

// statusText summarizes the run outcome for the header table.
func statusText(summary *mirror.Summary) string {
	if summary.Errors > 0 {
		return "Completed with " + strconv.Itoa(summary.Errors) + " error(s)"
	}
	return "Complete"
}

// writeDownloads lists each downloaded file with its size.
func (w *MarkdownWriter) writeDownloads(md *markdown.Markdown, summary *mirror.Summary) {
	md.H2("Downloads")
	md.PlainText("")

	if len(summary.Downloads) == 0 {
		md.PlainText("No files were downloaded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Downloads))
	for i, d := range summary.Downloads {
		rows[i] = []string{
			"`" + d.Path + "`",
			strconv.FormatInt(d.FileID, 10),
			formatBytes(d.Size),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "File ID", "Size"},
		Rows:   rows,
	})
	md.PlainText("")
}
