package canvas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient returns a Client pointed at the given test server.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, "test-token", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("empty API key returns ErrMissingAPIKey", func(t *testing.T) {
		t.Parallel()
		_, err := NewClient("https://canvas.example.edu", "", time.Minute)
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("URL without scheme returns ErrInvalidBaseURL", func(t *testing.T) {
		t.Parallel()
		_, err := NewClient("canvas.example.edu", "key", time.Minute)
		if !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("expected ErrInvalidBaseURL, got %v", err)
		}
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		t.Parallel()
		c, err := NewClient("https://canvas.example.edu/", "key", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := c.apiURL("/courses", nil)
		want := "https://canvas.example.edu/api/v1/courses"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("sends bearer token and decodes user", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("missing bearer token, got %q", got)
			}
			if r.URL.Path != "/api/v1/users/self" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			fmt.Fprint(w, `{"id": 7, "name": "Test User"}`)
		}))
		defer srv.Close()

		u, err := newTestClient(t, srv).CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != 7 || u.Name != "Test User" {
			t.Errorf("unexpected user %+v", u)
		}
	})

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"errors":[{"message":"Invalid access token."}]}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv).CurrentUser(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"403 maps to ErrForbidden", http.StatusForbidden, ErrForbidden},
		{"404 maps to ErrNotFound", http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).GetCourse(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestListCoursesPagination verifies that every page of a Link-header
// paginated listing is fetched and results keep response order.
func TestListCoursesPagination(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=2>; rel="next", <%s/api/v1/courses?page=1>; rel="current"`, srv.URL, srv.URL))
			fmt.Fprint(w, `[{"id":1,"name":"CS101"},{"id":2,"name":"CS102"}]`)
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=3>; rel="next"`, srv.URL))
			fmt.Fprint(w, `[{"id":3,"name":"CS103"}]`)
		case "3":
			// Last page: no rel="next".
			fmt.Fprint(w, `[{"id":4,"name":"CS104"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	courses, err := newTestClient(t, srv).ListCourses(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(courses) != 4 {
		t.Fatalf("expected 4 courses across 3 pages, got %d", len(courses))
	}
	for i, want := range []int64{1, 2, 3, 4} {
		if courses[i].ID != want {
			t.Errorf("course %d: expected id %d, got %d", i, want, courses[i].ID)
		}
	}
}

func TestNextPageURL(t *testing.T) {
	t.Parallel()

	t.Run("extracts rel=next target", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Link", `<https://c.example/api/v1/courses?page=2>; rel="next", <https://c.example/api/v1/courses?page=5>; rel="last"`)
		if got := nextPageURL(h); got != "https://c.example/api/v1/courses?page=2" {
			t.Errorf("unexpected next URL %q", got)
		}
	})

	t.Run("no next link returns empty", func(t *testing.T) {
		t.Parallel()
		h := http.Header{}
		h.Set("Link", `<https://c.example/api/v1/courses?page=1>; rel="first"`)
		if got := nextPageURL(h); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})

	t.Run("missing header returns empty", func(t *testing.T) {
		t.Parallel()
		if got := nextPageURL(http.Header{}); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

func TestGetPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/9/pages/intro-week" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"title":"Intro","body":"<p>Hello</p>"}`)
	}))
	defer srv.Close()

	p, err := newTestClient(t, srv).GetPage(context.Background(), 9, "intro-week")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "Intro" || p.Body != "<p>Hello</p>" {
		t.Errorf("unexpected page %+v", p)
	}
}

func TestDownloadFile(t *testing.T) {
	t.Parallel()

	t.Run("streams bytes following redirect", func(t *testing.T) {
		t.Parallel()

		payload := []byte("file-bytes")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/download/42":
				http.Redirect(w, r, "/storage/42", http.StatusFound)
			case "/storage/42":
				_, _ = w.Write(payload) //nolint:errcheck // Test server
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		f := &File{ID: 42, DisplayName: "doc.pdf", URL: srv.URL + "/download/42"}

		var buf bytes.Buffer
		n, err := newTestClient(t, srv).DownloadFile(context.Background(), f, &buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != int64(len(payload)) {
			t.Errorf("expected %d bytes, got %d", len(payload), n)
		}
		if !bytes.Equal(buf.Bytes(), payload) {
			t.Errorf("downloaded bytes differ: %q", buf.Bytes())
		}
	})

	t.Run("missing URL returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		var buf bytes.Buffer
		_, err := newTestClient(t, srv).DownloadFile(context.Background(), &File{ID: 1}, &buf)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
