package sanitize

import (
	"strings"
	"testing"
)

// TestName verifies the sanitization rules one at a time.
func TestName(t *testing.T) {
	t.Parallel()

	t.Run("plain name passes through", func(t *testing.T) {
		t.Parallel()
		if got := Name("Week 1"); got != "Week 1" {
			t.Errorf("expected 'Week 1', got %q", got)
		}
	})

	t.Run("illegal characters replaced with underscore", func(t *testing.T) {
		t.Parallel()
		if got := Name(`a/b\c:d*e?f"g<h>i|j`); got != "a_b_c_d_e_f_g_h_i_j" {
			t.Errorf("unexpected result %q", got)
		}
	})

	t.Run("control characters replaced", func(t *testing.T) {
		t.Parallel()
		if got := Name("a\tb\nc"); got != "a_b_c" {
			t.Errorf("unexpected result %q", got)
		}
	})

	t.Run("whitespace runs collapsed", func(t *testing.T) {
		t.Parallel()
		if got := Name("Week   1    Notes"); got != "Week 1 Notes" {
			t.Errorf("unexpected result %q", got)
		}
	})

	t.Run("leading and trailing dots and spaces trimmed", func(t *testing.T) {
		t.Parallel()
		if got := Name(" .hidden. "); got != "hidden" {
			t.Errorf("unexpected result %q", got)
		}
	})

	t.Run("empty input falls back", func(t *testing.T) {
		t.Parallel()
		if got := Name(""); got != Fallback {
			t.Errorf("expected fallback, got %q", got)
		}
	})

	t.Run("only illegal characters falls back", func(t *testing.T) {
		t.Parallel()
		// Underscores survive trimming, so use inputs that reduce to
		// spaces and dots only.
		if got := Name(" . . "); got != Fallback {
			t.Errorf("expected fallback, got %q", got)
		}
	})

	t.Run("long name truncated preserving extension", func(t *testing.T) {
		t.Parallel()
		got := Name(strings.Repeat("a", 300) + ".pdf")
		if len([]rune(got)) > MaxNameLength {
			t.Errorf("result exceeds max length: %d runes", len([]rune(got)))
		}
		if !strings.HasSuffix(got, ".pdf") {
			t.Errorf("extension lost: %q", got)
		}
	})

	t.Run("long name without extension truncated", func(t *testing.T) {
		t.Parallel()
		got := Name(strings.Repeat("b", 300))
		if len([]rune(got)) != MaxNameLength {
			t.Errorf("expected %d runes, got %d", MaxNameLength, len([]rune(got)))
		}
	})
}

// TestNameIdempotent verifies sanitize(sanitize(x)) == sanitize(x),
// which the deduplicator's collision detection depends on.
func TestNameIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Week 1",
		`CS101: Intro/Overview`,
		"  spaced   out  ",
		"...dots...",
		strings.Repeat("x", 400) + ".tar.gz",
		"",
		"日本語のコース名",
		"Ünïcödé Näme",
	}

	for _, in := range inputs {
		once := Name(in)
		twice := Name(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

// TestNameDeterministic verifies repeated calls agree.
func TestNameDeterministic(t *testing.T) {
	t.Parallel()

	in := `Syllabus: "Final" <v2>?`
	first := Name(in)
	for i := 0; i < 10; i++ {
		if got := Name(in); got != first {
			t.Fatalf("nondeterministic result: %q vs %q", first, got)
		}
	}
}

// TestSplitExt verifies base/extension splitting.
func TestSplitExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantBase string
		wantExt  string
	}{
		{"with extension", "slides.pdf", "slides", ".pdf"},
		{"no extension", "README", "README", ""},
		{"double extension keeps last", "archive.tar.gz", "archive.tar", ".gz"},
		{"dotfile", ".gitignore", "", ".gitignore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base, ext := SplitExt(tt.input)
			if base != tt.wantBase || ext != tt.wantExt {
				t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)",
					tt.input, base, ext, tt.wantBase, tt.wantExt)
			}
		})
	}
}
