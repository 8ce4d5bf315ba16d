package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// nextPageURL extracts the rel="next" target from an RFC 5988 Link
// header. Canvas paginates every list endpoint this way. Returns ""
// when there is no next page.
func nextPageURL(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			section := strings.Split(part, ";")
			if len(section) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(section[0]), "<>")
			for _, param := range section[1:] {
				if strings.TrimSpace(param) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}

// getPaginated fetches every page of a list endpoint, decoding each page
// into a slice of T and following rel="next" links to exhaustion.
//
// Pages are fetched strictly in sequence and results are appended in
// response order, which is what guarantees module items land in the
// output document in API order.
func getPaginated[T any](ctx context.Context, c *Client, firstURL string) ([]T, error) {
	var all []T

	next := firstURL
	for next != "" {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		resp, err := c.do(ctx, next)
		if err != nil {
			return all, err
		}

		var page []T
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close() //nolint:errcheck // Read to completion by the decoder
		if err != nil {
			return all, fmt.Errorf("canvas: decode page %s: %w", next, err)
		}

		all = append(all, page...)
		next = nextPageURL(resp.Header)
	}

	return all, nil
}
