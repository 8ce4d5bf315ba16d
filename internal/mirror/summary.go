package mirror

import "time"

// DownloadedFile describes one file physically downloaded during the run.
type DownloadedFile struct {
	// FileID is the remote Canvas file identifier.
	FileID int64

	// Path is the file's location relative to the output directory.
	Path string

	// Size is the downloaded size in bytes.
	Size int64
}

// Summary aggregates what a run did. It feeds the terminal summary, the
// optional Markdown report, and the run-history database.
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time

	// OutputDir is the root the mirrored tree was written under.
	OutputDir string

	// Courses and Modules count what was processed, not what exists
	// remotely; skipped or failed entries are not counted.
	Courses int
	Modules int

	// Items counts rendered item sections, placeholders included.
	Items int

	// Errors counts non-fatal failures that were logged and skipped.
	Errors int

	// Downloads lists each physical download, in download order.
	Downloads []DownloadedFile
}

// FilesDownloaded returns the number of physical downloads.
func (s *Summary) FilesDownloaded() int {
	return len(s.Downloads)
}

// BytesDownloaded returns the total downloaded size in bytes.
func (s *Summary) BytesDownloaded() int64 {
	var total int64
	for _, d := range s.Downloads {
		total += d.Size
	}
	return total
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
