// Package mirror implements the fetch-convert-write pipeline: it walks
// courses and modules through the Canvas API, renders each module's
// items into a Markdown document, and downloads referenced files with
// run-wide deduplication.
package mirror
