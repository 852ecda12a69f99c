package server

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rickcrawford/wpmarkdown/internal/stats"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	counter, err := stats.NewCounter("")
	if err != nil {
		t.Fatal(err)
	}
	return Router(Options{Stats: counter})
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		body        string
		contains    string
		contentType string
	}{
		{
			name:        "markdown",
			body:        `<h2>Title</h2><p>Some <strong>bold</strong> text</p>`,
			contains:    "## Title",
			contentType: "text/markdown",
		},
		{
			name:        "image kept as is",
			body:        `<img src="https://cdn.example/x.png">`,
			contains:    `filename="https://cdn.example/x.png"`,
			contentType: "text/markdown",
		},
		{
			name:        "scraped images rewritten",
			query:       "?save_scraped_images=true",
			body:        `<img src="https://cdn.example/x.png">`,
			contains:    `filename="images/x.png"`,
			contentType: "text/markdown",
		},
		{
			name:        "html preview",
			query:       "?format=html",
			body:        `<h2>Title</h2>`,
			contains:    "<h2>Title</h2>",
			contentType: "text/html",
		},
	}

	router := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/convert"+tt.query, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.contains)
			}
			if rec.Header().Get("X-Word-Count") == "" {
				t.Error("missing X-Word-Count header")
			}
			if rec.Header().Get("X-Token-Count") != "" {
				t.Error("X-Token-Count set with token counting disabled")
			}
		})
	}
}

func TestConvert_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(`<p>compressed body</p>`))
	zw.Close()

	req := httptest.NewRequest(http.MethodPost, "/convert", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "compressed body") {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestConvert_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestNew(t *testing.T) {
	srv := New(Options{Addr: ":0"})
	if srv.Addr != ":0" || srv.Handler == nil {
		t.Errorf("unexpected server %+v", srv)
	}
}
