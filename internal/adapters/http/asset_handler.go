package http

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// AssetHandler serves built files from the output directory.
type AssetHandler struct {
	fs  afero.Fs
	dir string
}

func NewAssetHandler(fs afero.Fs, dir string) *AssetHandler {
	return &AssetHandler{fs: fs, dir: dir}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := cleanName(req.URL.Path)
	if name == "" {
		http.NotFound(w, req)
		return
	}
	h.serveFile(w, req, name)
}

func (h *AssetHandler) serveFile(w http.ResponseWriter, req *http.Request, name string) {
	fullPath := filepath.Join(h.dir, filepath.FromSlash(name))

	info, err := h.fs.Stat(fullPath)
	if err != nil || info.IsDir() {
		http.NotFound(w, req)
		return
	}

	file, err := h.fs.Open(fullPath)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer func() { _ = file.Close() }()

	w.Header().Set("Content-Type", core.GetContentType(name))
	http.ServeContent(w, req, info.Name(), info.ModTime(), file)
}

func (h *AssetHandler) read(name string) ([]byte, error) {
	return afero.ReadFile(h.fs, filepath.Join(h.dir, filepath.FromSlash(cleanName(name))))
}

func (h *AssetHandler) exists(name string) bool {
	info, err := h.fs.Stat(filepath.Join(h.dir, filepath.FromSlash(cleanName(name))))
	return err == nil && !info.IsDir()
}

// cleanName turns a request path into a slash path that cannot leave the
// output directory.
func cleanName(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
