package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"
)

type RouterOptions struct {
	Fs    afero.Fs
	Dir   string
	State BuildState
	// Reloader, when set, serves ReloadPath and injects the reload script
	// into pages.
	Reloader *Reloader
	IsDev    bool
	Logger   *log.Logger
}

// NewRouter serves the output directory: pages by clean URL, every other
// built file by its path.
func NewRouter(opts RouterOptions) http.Handler {
	assets := NewAssetHandler(opts.Fs, opts.Dir)
	pages := NewPageHandler(assets, opts.State, opts.Reloader, opts.IsDev, opts.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(pages.logger))

	if opts.Reloader != nil {
		r.Get(ReloadPath, opts.Reloader.ServeHTTP)
	}
	r.Get("/", pages.ServeHTTP)
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		if assets.exists(chi.URLParam(req, "*")) {
			assets.ServeHTTP(w, req)
			return
		}
		pages.ServeHTTP(w, req)
	})
	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Debug("request", "method", req.Method, "path", req.URL.Path, "status", ww.Status())
		})
	}
}
