// Package sanitize maps arbitrary course, module, and file names to
// names that are safe to use on common filesystems.
package sanitize
