// Package report renders run summaries in multiple output formats:
// plain text for the terminal, Markdown for files, and JSON for
// machine consumption.
package report
