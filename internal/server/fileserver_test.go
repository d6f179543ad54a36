package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"goodgood/internal/gg"
)

const latestJSON = "{\n  \"date\": \"2026-02-01\"\n}\n"

func newTestFileServer(t *testing.T) (*FileServer, *Metrics, string, string) {
	t.Helper()
	dir := t.TempDir()
	dataRoot := filepath.Join(dir, "data")
	assetRoot := filepath.Join(dir, "web")
	files := map[string]string{
		filepath.Join(dataRoot, "latest.json"):              latestJSON,
		filepath.Join(dataRoot, "daily", "2026-02-01.json"): `{"date":"2026-02-01"}`,
		filepath.Join(assetRoot, "index.html"):               "<!doctype html>",
		filepath.Join(assetRoot, "app.js"):                   "console.log(1)",
		filepath.Join(assetRoot, "icons", "logo.svg"):        "<svg/>",
		filepath.Join(assetRoot, "blob.bin"):                 "\x00\x01",
		filepath.Join(dir, "secret.txt"):                     "top secret",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMetrics(prometheus.NewRegistry())
	s, err := NewFileServer(dataRoot, assetRoot, gg.NewNopLogger(), m)
	if err != nil {
		t.Fatalf("NewFileServer() error = %v", err)
	}
	return s, m, dataRoot, assetRoot
}

func TestFileServer(t *testing.T) {
	t.Parallel()
	s, _, _, _ := newTestFileServer(t)

	tests := []struct {
		name      string
		method    string
		path      string
		wantCode  int
		wantBody  string
		wantType  string
		wantCache string
	}{
		{name: "latest pointer", method: "GET", path: "/data/latest.json", wantCode: 200, wantBody: latestJSON,
			wantType: "application/json; charset=utf-8", wantCache: dataCacheControl},
		{name: "dotdot into data tree", method: "GET", path: "/x/../data/latest.json", wantCode: 200, wantBody: latestJSON,
			wantCache: dataCacheControl},
		{name: "dot segment in data path", method: "GET", path: "/data/./latest.json", wantCode: 200, wantCache: dataCacheControl},
		{name: "daily record", method: "GET", path: "/data/daily/2026-02-01.json", wantCode: 200,
			wantBody: `{"date":"2026-02-01"}`, wantCache: dataCacheControl},
		{name: "root is index", method: "GET", path: "/", wantCode: 200, wantBody: "<!doctype html>",
			wantType: "text/html; charset=utf-8", wantCache: assetCacheControl},
		{name: "script", method: "GET", path: "/app.js", wantCode: 200, wantType: "text/javascript; charset=utf-8"},
		{name: "svg", method: "GET", path: "/icons/logo.svg", wantCode: 200, wantType: "image/svg+xml"},
		{name: "unknown extension", method: "GET", path: "/blob.bin", wantCode: 200, wantType: "application/octet-stream"},
		{name: "head", method: "HEAD", path: "/data/latest.json", wantCode: 200, wantBody: "", wantCache: dataCacheControl},
		{name: "data escape", method: "GET", path: "/data/../../etc/passwd", wantCode: 403},
		{name: "data escape to sibling", method: "GET", path: "/data/../secret.txt", wantCode: 403},
		{name: "asset escape", method: "GET", path: "/../secret.txt", wantCode: 403},
		{name: "missing asset", method: "GET", path: "/missing.css", wantCode: 404},
		{name: "missing record", method: "GET", path: "/data/daily/2020-01-01.json", wantCode: 404},
		{name: "directory", method: "GET", path: "/data/daily", wantCode: 404},
		{name: "data root", method: "GET", path: "/data/", wantCode: 404},
		{name: "file as directory", method: "GET", path: "/data/latest.json/x", wantCode: 404},
		{name: "post", method: "POST", path: "/data/latest.json", wantCode: 405},
		{name: "delete", method: "DELETE", path: "/", wantCode: 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != 200 {
				return
			}
			if tt.method == "GET" && tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.method == "HEAD" {
				if rec.Body.Len() != 0 {
					t.Errorf("HEAD returned %d body bytes", rec.Body.Len())
				}
				if rec.Header().Get("Content-Length") != "27" {
					t.Errorf("Content-Length = %q, want 27", rec.Header().Get("Content-Length"))
				}
			}
			if tt.wantType != "" && rec.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.wantType)
			}
			if tt.wantCache != "" && rec.Header().Get("Cache-Control") != tt.wantCache {
				t.Errorf("Cache-Control = %q, want %q", rec.Header().Get("Cache-Control"), tt.wantCache)
			}
		})
	}
}

func TestFileServer_MethodNotAllowedSetsAllow(t *testing.T) {
	t.Parallel()
	s, _, _, _ := newTestFileServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/index.html", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET, HEAD" {
		t.Errorf("status = %d, Allow = %q", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestFileServer_ReadFailureReportsErrno(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	t.Parallel()
	s, _, dataRoot, _ := newTestFileServer(t)

	locked := filepath.Join(dataRoot, "index.json")
	if err := os.WriteFile(locked, []byte("{}"), 0000); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/index.json", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "Server Error: EACCES" {
		t.Errorf("body = %q, want Server Error: EACCES", got)
	}
}

func TestFileServer_Metrics(t *testing.T) {
	t.Parallel()
	s, m, _, _ := newTestFileServer(t)

	for _, path := range []string{"/data/latest.json", "/data/latest.json", "/nope", "/data/../x"} {
		s.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := promtest.ToFloat64(m.Requests.WithLabelValues("data", "200")); got != 2 {
		t.Errorf("data/200 = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.Requests.WithLabelValues("asset", "404")); got != 1 {
		t.Errorf("asset/404 = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.Requests.WithLabelValues("data", "403")); got != 1 {
		t.Errorf("data/403 = %v, want 1", got)
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"a.HTML":           "text/html; charset=utf-8",
		"style.css":        "text/css; charset=utf-8",
		"photo.jpg":        "image/jpeg",
		"favicon.ico":      "image/x-icon",
		"site.webmanifest": "application/manifest+json; charset=utf-8",
		"robots.txt":       "text/plain; charset=utf-8",
		"logo.png":         "image/png",
		"archive.tar.gz":   "application/octet-stream",
		"noext":            "application/octet-stream",
	}
	for name, want := range tests {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", name, got, want)
		}
	}
}
