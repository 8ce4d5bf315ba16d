// Package convert turns Canvas HTML fragments into Markdown and
// resolves the embedded Canvas file links inside them.
package convert
