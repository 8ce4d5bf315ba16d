package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// MaskValue replaces sensitive attribute values in log output.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
// The mirror is invoked with a bearer token on the command line, so any
// attribute that could carry it must never reach the log.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"authorization": true,
	"token":         true,
	"access_token":  true,
	"bearer":        true,
	"password":      true,
	"secret":        true,
}

// MaskingHandler wraps an slog.Handler and masks credential-bearing
// attributes before they reach the underlying handler. It works with
// any handler (text, JSON) and composes through WithAttrs/WithGroup.
type MaskingHandler struct {
	handler slog.Handler
}

// NewMaskingHandler creates a MaskingHandler wrapping the given handler.
// A nil handler falls back to slog.Default().Handler().
func NewMaskingHandler(handler slog.Handler) *MaskingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a handler with the given attributes added, masked.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a handler with the given group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursing into groups.
func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// Level names accepted by the --log-level flag.
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// ParseLevel maps a CLI log-level name onto an slog.Level.
// CRITICAL maps above ERROR so that only fatal startup failures pass a
// CRITICAL filter. Unknown names report ok=false and default to INFO.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case LevelDebug:
		return slog.LevelDebug, true
	case LevelInfo, "":
		return slog.LevelInfo, true
	case LevelWarning, "WARN":
		return slog.LevelWarn, true
	case LevelError:
		return slog.LevelError, true
	case LevelCritical:
		return slog.LevelError + 4, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger creates a masking text logger writing to w at the given
// CLI level name.
func NewLogger(w io.Writer, levelName string) *slog.Logger {
	level, _ := ParseLevel(levelName)
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewMaskingHandler(textHandler))
}
