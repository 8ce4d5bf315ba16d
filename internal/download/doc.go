// Package download tracks which remote files have already been fetched
// during the current run and short-circuits repeat downloads.
package download
