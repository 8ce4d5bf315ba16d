package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fileIDPattern matches Canvas file references inside href/src values.
// Canvas embeds files as /files/<id>, /courses/<cid>/files/<id>, and
// variants with /download or /preview suffixes and verifier query
// parameters; the numeric id is all the mirror needs.
var fileIDPattern = regexp.MustCompile(`/files/(\d+)(?:/(?:download|preview))?`)

// FileRef is one Canvas file reference discovered in an HTML fragment.
type FileRef struct {
	// ID is the remote file identifier extracted from the URL.
	ID int64

	// Text is the anchor text of the first link to this file, used as
	// the link label in "Referenced Files" listings. Empty for images.
	Text string

	// IsImage reports whether the reference appeared (at least once)
	// as an <img> source rather than an anchor.
	IsImage bool
}

// ScanFileLinks extracts Canvas file references from an HTML fragment.
//
// Both <a href> and <img src> attributes are inspected. References are
// returned in document order, deduplicated by file ID; when the same
// file appears as both image and link, the image flag wins and the
// first non-empty anchor text is kept.
func ScanFileLinks(html string) ([]FileRef, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("convert: parse html: %w", err)
	}

	var order []int64
	refs := make(map[int64]*FileRef)

	record := func(id int64, text string, isImage bool) {
		ref, ok := refs[id]
		if !ok {
			ref = &FileRef{ID: id}
			refs[id] = ref
			order = append(order, id)
		}
		if ref.Text == "" && text != "" {
			ref.Text = text
		}
		if isImage {
			ref.IsImage = true
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if id, ok := matchFileID(href); ok {
			record(id, strings.TrimSpace(sel.Text()), false)
		}
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if id, ok := matchFileID(src); ok {
			record(id, "", true)
		}
	})

	out := make([]FileRef, 0, len(order))
	for _, id := range order {
		out = append(out, *refs[id])
	}
	return out, nil
}

// RewriteFileLinks returns html with every href/src that references a
// file ID present in paths replaced by the mapped local path. IDs
// missing from the map are left untouched, so links to files whose
// download failed keep pointing at Canvas.
func RewriteFileLinks(html string, paths map[int64]string) (string, error) {
	if strings.TrimSpace(html) == "" || len(paths) == 0 {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("convert: parse html: %w", err)
	}

	rewrite := func(sel *goquery.Selection, attr string) {
		val, ok := sel.Attr(attr)
		if !ok {
			return
		}
		id, ok := matchFileID(val)
		if !ok {
			return
		}
		if local, ok := paths[id]; ok {
			sel.SetAttr(attr, local)
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		rewrite(sel, "href")
	})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		rewrite(sel, "src")
	})

	// NewDocumentFromReader wraps fragments in html/body; serialize the
	// body's inner HTML to get the rewritten fragment back.
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("convert: serialize html: %w", err)
	}
	return out, nil
}

// matchFileID extracts the file ID from a URL if it references a Canvas
// file.
func matchFileID(rawURL string) (int64, bool) {
	m := fileIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
