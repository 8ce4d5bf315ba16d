package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/canvas-mirror/canvas-mirror/internal/mirror"
)

// JSONWriter outputs summaries as indented JSON for machine consumption.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// jsonSummary is the stable wire shape; mirror.Summary itself carries no
// JSON tags so the encoding is pinned here.
type jsonSummary struct {
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	OutputDir       string         `json:"output_dir"`
	Courses         int            `json:"courses"`
	Modules         int            `json:"modules"`
	Items           int            `json:"items"`
	FilesDownloaded int            `json:"files_downloaded"`
	BytesDownloaded int64          `json:"bytes_downloaded"`
	Errors          int            `json:"errors"`
	Downloads       []jsonDownload `json:"downloads"`
}

type jsonDownload struct {
	FileID int64  `json:"file_id"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
}

// Write outputs the summary as indented JSON.
func (w *JSONWriter) Write(summary *mirror.Summary) (int, error) {
	out := jsonSummary{
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		OutputDir:       summary.OutputDir,
		Courses:         summary.Courses,
		Modules:         summary.Modules,
		Items:           summary.Items,
		FilesDownloaded: summary.FilesDownloaded(),
		BytesDownloaded: summary.BytesDownloaded(),
		Errors:          summary.Errors,
		Downloads:       make([]jsonDownload, 0, len(summary.Downloads)),
	}
	for _, d := range summary.Downloads {
		out.Downloads = append(out.Downloads, jsonDownload{FileID: d.FileID, Path: d.Path, Size: d.Size})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
