// Package server serves the web assets and the data tree over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"goodgood/internal/fs"
	"goodgood/internal/gg"
)

const (
	dataPrefix = "/data/"

	treeData  = "data"
	treeAsset = "asset"

	dataCacheControl  = "no-store, no-cache, must-revalidate, proxy-revalidate"
	assetCacheControl = "public, max-age=3600"
)

var contentTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".json":        "application/json; charset=utf-8",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".ico":         "image/x-icon",
	".svg":         "image/svg+xml",
	".webmanifest": "application/manifest+json; charset=utf-8",
	".txt":         "text/plain; charset=utf-8",
}

// ContentType returns the Content-Type served for name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileServer serves /data/ from the data root and everything else from the
// asset root. It is read-only; the generator's atomic renames mean a reader
// sees either the old or the new version of a file.
type FileServer struct {
	dataRoot  string
	assetRoot string
	logger    gg.Logger
	metrics   *Metrics
}

// NewFileServer creates a FileServer. Both roots are made absolute; metrics
// may be nil.
func NewFileServer(dataRoot, assetRoot string, logger gg.Logger, metrics *Metrics) (*FileServer, error) {
	absData, err := filepath.Abs(dataRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving data root: %w", err)
	}
	absAsset, err := filepath.Abs(assetRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root: %w", err)
	}
	return &FileServer{dataRoot: absData, assetRoot: absAsset, logger: logger, metrics: metrics}, nil
}

// resolve maps a request path to a tree and a file. A path sent with the
// /data/ prefix stays in the data tree even if it climbs out of it, so the
// escape is refused instead of landing in the asset tree. Any other path is
// routed by its cleaned form.
func (s *FileServer) resolve(urlPath string) (tree, base, target string) {
	if rel, ok := strings.CutPrefix(urlPath, dataPrefix); ok {
		return treeData, s.dataRoot, filepath.Join(s.dataRoot, filepath.FromSlash(rel))
	}
	if rel, ok := strings.CutPrefix(path.Clean("/"+urlPath), dataPrefix); ok {
		return treeData, s.dataRoot, filepath.Join(s.dataRoot, filepath.FromSlash(rel))
	}
	if urlPath == "/" || urlPath == "" {
		urlPath = "/index.html"
	}
	return treeAsset, s.assetRoot, filepath.Join(s.assetRoot, filepath.FromSlash(urlPath))
}

func (s *FileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tree, base, target := s.resolve(r.URL.Path)
	code := s.serve(w, r, tree, base, target)
	s.metrics.observe(tree, code, time.Since(start))
}

func (s *FileServer) serve(w http.ResponseWriter, r *http.Request, tree, base, target string) int {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	if !fs.Within(base, target) {
		s.logger.Warn("path escapes root", "path", r.URL.Path, "tree", tree)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return http.StatusForbidden
	}

	f, err := os.Open(target)
	if err != nil {
		return s.fail(w, r, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return s.fail(w, r, err)
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return http.StatusNotFound
	}

	h := w.Header()
	h.Set("Content-Type", ContentType(target))
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if tree == treeData {
		h.Set("Cache-Control", dataCacheControl)
	} else {
		h.Set("Cache-Control", assetCacheControl)
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return http.StatusOK
	}
	if _, err := io.Copy(w, f); err != nil {
		// Headers are gone; the client sees a short body.
		s.logger.Warn("writing response failed", "path", r.URL.Path, "error", err)
	}
	return http.StatusOK
}

// fail maps a filesystem error to a response.
func (s *FileServer) fail(w http.ResponseWriter, r *http.Request, err error) int {
	if errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		http.NotFound(w, r)
		return http.StatusNotFound
	}
	class := fs.ErrorClass(err)
	s.logger.Error("reading file failed", "path", r.URL.Path, "class", class, "error", err)
	http.Error(w, "Server Error: "+class, http.StatusInternalServerError)
	return http.StatusInternalServerError
}
