// Package config provides configuration structures and utilities for
// canvas-mirror: CLI flag targets, environment fallbacks, and the
// optional per-course YAML configuration file.
package config
