package canvas

import (
	"context"
	"fmt"
	"io"
)

// GetFile fetches file metadata by file ID.
//
// The endpoint is instance-wide rather than course-scoped, so embedded
// links to files from other courses still resolve.
func (c *Client) GetFile(ctx context.Context, fileID int64) (*File, error) {
	var f File
	path := fmt.Sprintf("/files/%d", fileID)
	if err := c.get(ctx, c.apiURL(path, nil), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DownloadFile streams the file's contents to w and returns the number
// of bytes written.
//
// The file's URL field is a pre-authorized location that typically
// redirects to object storage; the default http.Client follows the
// redirect chain. The bearer header is still attached for instances
// that serve files directly.
func (c *Client) DownloadFile(ctx context.Context, f *File, w io.Writer) (int64, error) {
	if f.URL == "" {
		return 0, fmt.Errorf("%w: file %d has no download URL", ErrNotFound, f.ID)
	}

	resp, err := c.do(ctx, f.URL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("canvas: download file %d: %w", f.ID, err)
	}
	return n, nil
}
