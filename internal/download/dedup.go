package download

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/canvas-mirror/canvas-mirror/internal/sanitize"
)

// FetchFunc streams a remote file's bytes into w.
// It is only invoked for files not yet downloaded in this run.
type FetchFunc func(w io.Writer) error

// Deduplicator records which remote file IDs have been downloaded during
// the current run and where they landed, so a file referenced from
// several items, modules, or courses is fetched exactly once.
//
// The record lives for one run and is never persisted. It is not safe
// for concurrent use; the mirror pipeline is strictly sequential.
type Deduplicator struct {
	// root is the output directory all recorded paths are relative to.
	root string

	// paths maps remote file ID to the file's path relative to root.
	paths map[int64]string

	// claimed maps directory → sanitized filename → owning remote ID,
	// for collision detection between distinct files whose names
	// sanitize identically.
	claimed map[string]map[string]int64
}

// NewDeduplicator creates an empty Deduplicator rooted at the output
// directory.
func NewDeduplicator(root string) *Deduplicator {
	return &Deduplicator{
		root:    root,
		paths:   make(map[int64]string),
		claimed: make(map[string]map[string]int64),
	}
}

// Resolve returns the root-relative path for the remote file, fetching
// it if this run has not seen the ID before.
//
// For a known ID the stored path is returned and fetch is not invoked.
// For a new ID, a collision-free filename derived from suggestedName is
// chosen inside destDir (a path relative to the root), fetch streams the
// bytes to disk, and the mapping is recorded. A failed fetch removes the
// partial file and records nothing, so a later reference may try again.
//
// The returned downloaded flag reports whether a physical download
// happened in this call.
func (d *Deduplicator) Resolve(fileID int64, suggestedName, destDir string, fetch FetchFunc) (relPath string, downloaded bool, err error) {
	if p, ok := d.paths[fileID]; ok {
		return p, false, nil
	}

	name := d.pickName(destDir, sanitize.Name(suggestedName))
	relPath = filepath.Join(destDir, name)
	absPath := filepath.Join(d.root, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0750); err != nil {
		return "", false, fmt.Errorf("download: create directory: %w", err)
	}

	f, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Mirrored course content is not secret
	if err != nil {
		return "", false, fmt.Errorf("download: create file: %w", err)
	}

	// The name is claimed only once the file exists on disk, so a failed
	// directory or file creation cannot leak a claim.
	d.claim(destDir, name, fileID)

	if err := fetch(f); err != nil {
		_ = f.Close()          //nolint:errcheck // Fetch already failed
		_ = os.Remove(absPath) //nolint:errcheck // Best effort cleanup of the partial file
		d.unclaim(destDir, name)
		return "", false, fmt.Errorf("download: fetch file %d: %w", fileID, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(absPath) //nolint:errcheck // Best effort cleanup
		d.unclaim(destDir, name)
		return "", false, fmt.Errorf("download: close file: %w", err)
	}

	d.paths[fileID] = relPath
	return relPath, true, nil
}

// Path returns the recorded root-relative path for a file ID, if any.
func (d *Deduplicator) Path(fileID int64) (string, bool) {
	p, ok := d.paths[fileID]
	return p, ok
}

// pickName returns a free filename inside dir without claiming it. When
// the sanitized name is already claimed by a different ID, a numeric
// suffix is appended before the extension ("doc.pdf" → "doc 1.pdf",
// "doc 2.pdf") until a free name is found.
func (d *Deduplicator) pickName(dir, name string) string {
	names := d.claimed[dir]

	if _, taken := names[name]; !taken {
		return name
	}

	base, ext := sanitize.SplitExt(name)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s %d%s", base, n, ext)
		if _, taken := names[candidate]; !taken {
			return candidate
		}
	}
}

// claim records fileID as the owner of name inside dir.
func (d *Deduplicator) claim(dir, name string, fileID int64) {
	names := d.claimed[dir]
	if names == nil {
		names = make(map[string]int64)
		d.claimed[dir] = names
	}
	names[name] = fileID
}

// unclaim releases a name claimed by a failed download.
func (d *Deduplicator) unclaim(dir, name string) {
	if names := d.claimed[dir]; names != nil {
		delete(names, name)
	}
}
