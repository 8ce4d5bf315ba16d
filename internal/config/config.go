package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/canvas-mirror/canvas-mirror/internal/log"
)

// Default configuration values.
const (
	// DefaultOutputDir is where the mirrored tree is written when
	// --output-dir is not given.
	DefaultOutputDir = "canvas_output"

	// DefaultTimeout bounds each HTTP request. Canvas file downloads
	// can be large, so the bound is generous; there is no overall run
	// deadline.
	DefaultTimeout = 2 * time.Minute

	// DefaultLogLevel is the log level when --log-level is not given.
	DefaultLogLevel = log.LevelInfo

	// AppName is used for XDG directory paths.
	AppName = "canvas-mirror"

	// EnvAPIURL and EnvAPIKey are the environment fallbacks for the
	// corresponding flags.
	EnvAPIURL = "CANVAS_API_URL"
	EnvAPIKey = "CANVAS_API_KEY"
)

// Config holds all options for a mirror run. It is populated from CLI
// flags (with environment fallbacks) and passed through the application
// explicitly rather than held in global state.
type Config struct {
	// APIURL is the root URL of the Canvas instance,
	// e.g. "https://canvas.instructure.com".
	APIURL string

	// APIKey is the Canvas access token. Never logged; the logging
	// handler masks it if it appears in an attribute.
	APIKey string

	// CourseIDs are the explicit course targets. Empty means mirror
	// every course the token can access.
	CourseIDs []int64

	// OutputDir is the root of the mirrored directory tree.
	OutputDir string

	// LogLevel is one of DEBUG, INFO, WARNING, ERROR, CRITICAL.
	LogLevel string

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// ConfigFilePath is an explicit path to the YAML configuration
	// file. Empty means search .canvas-mirror in cwd then home.
	ConfigFilePath string

	// Courses holds per-course overrides loaded from the config file.
	Courses *File

	// ReportFile, when set, receives a Markdown run summary.
	ReportFile string

	// DBDir is the directory holding the run-history database.
	// Defaults to the XDG data directory for the application.
	DBDir string
}

// NewConfig creates a Config with default values. Non-zero defaults live
// here rather than scattered across flag definitions.
func NewConfig() *Config {
	return &Config{
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
		Timeout:   DefaultTimeout,
		DBDir:     XDGDataDir(),
	}
}

// ApplyEnvironment fills APIURL and APIKey from CANVAS_API_URL and
// CANVAS_API_KEY when the flags left them empty. Flags win over the
// environment.
func (c *Config) ApplyEnvironment() {
	if c.APIURL == "" {
		c.APIURL = os.Getenv(EnvAPIURL)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
}

// Validate checks the configuration, returning the first problem found.
// Called once after flag parsing, before any network traffic.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return ErrInvalidLogLevel
	}
	return nil
}

// XDGDataDir returns the XDG data directory for canvas-mirror.
// On Linux: ~/.local/share/canvas-mirror.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ParseCourseIDs parses the comma-separated --course-ids value.
// Invalid entries are returned separately so the caller can warn and
// continue rather than abort the run.
func ParseCourseIDs(csv string) (ids []int64, invalid []string) {
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			invalid = append(invalid, part)
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}
