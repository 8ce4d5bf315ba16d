// Package database provides SQLite-based storage for mirror run
// history: one row per completed run plus one row per downloaded file.
// The history is informational (read by the history command); the
// in-run download deduplication never consults it.
package database
