package http

import (
	"bytes"
	"net/http"
	"path"

	"github.com/charmbracelet/log"

	"github.com/3-lines-studio/pagepack/internal/core"
)

// BuildState reports the outcome of the most recent build.
type BuildState interface {
	LastError() error
}

// PageHandler maps clean URLs onto generated pages: "/" to index.html and
// "/about" to about.html. While the last build failed it answers with the
// error page instead.
type PageHandler struct {
	assets   *AssetHandler
	state    BuildState
	reloader *Reloader
	isDev    bool
	logger   *log.Logger
}

// NewPageHandler builds a page handler. A non-nil reloader makes every page
// and error page carry the live reload script.
func NewPageHandler(assets *AssetHandler, state BuildState, reloader *Reloader, isDev bool, logger *log.Logger) *PageHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PageHandler{
		assets:   assets,
		state:    state,
		reloader: reloader,
		isDev:    isDev,
		logger:   logger,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h.state != nil {
		if err := h.state.LastError(); err != nil {
			h.serveError(w, err)
			return
		}
	}

	name := pageFile(req.URL.Path)
	if !h.assets.exists(name) {
		http.NotFound(w, req)
		return
	}
	if h.reloader == nil || path.Ext(name) != ".html" {
		h.assets.serveFile(w, req, name)
		return
	}

	page, err := h.assets.read(name)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", core.GetContentType(name))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(injectReloadScript(page))
}

func pageFile(urlPath string) string {
	name := cleanName(urlPath)
	switch {
	case name == "":
		return "index.html"
	case path.Ext(name) == "":
		return name + ".html"
	default:
		return name
	}
}

func (h *PageHandler) serveError(w http.ResponseWriter, err error) {
	h.logger.Error("serving error page", "error", err)

	var buf bytes.Buffer
	data := core.ErrorData{Message: err.Error(), IsDev: h.isDev}
	if execErr := core.ErrorTemplate.Execute(&buf, data); execErr != nil {
		http.Error(w, "Build failed", http.StatusInternalServerError)
		return
	}

	body := buf.Bytes()
	if h.reloader != nil {
		body = injectReloadScript(body)
	}

	w.Header().Set("Content-Type", core.GetContentType("error.html"))
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
}
