package http

import (
	"bytes"
	"net/http"
	"sync"
)

// ReloadPath is the server-sent events endpoint browsers listen on while
// watching.
const ReloadPath = "/__pagepack/reload"

const reloadScript = `<script>(function(){var s=new EventSource("` + ReloadPath + `");` +
	`s.addEventListener("reload",function(){location.reload()});})();</script>`

// Reloader fans a rebuild notification out to every connected browser.
type Reloader struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewReloader() *Reloader {
	return &Reloader{subs: map[chan struct{}]struct{}{}}
}

func (r *Reloader) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *Reloader) unsubscribe(ch chan struct{}) {
	r.mu.Lock()
	delete(r.subs, ch)
	r.mu.Unlock()
}

// Notify never blocks; a subscriber that has not consumed the previous
// notification keeps just one pending.
func (r *Reloader) Notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ch := r.subscribe()
	defer r.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	_, _ = w.Write([]byte("event: ready\ndata: 1\n\n"))
	flusher.Flush()

	for {
		select {
		case <-req.Context().Done():
			return
		case <-ch:
			_, _ = w.Write([]byte("event: reload\ndata: 1\n\n"))
			flusher.Flush()
		}
	}
}

func injectReloadScript(page []byte) []byte {
	if bytes.Contains(page, []byte(ReloadPath)) {
		return page
	}
	if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(page)+len(reloadScript))
		out = append(out, page[:i]...)
		out = append(out, reloadScript...)
		return append(out, page[i:]...)
	}
	return append(append([]byte{}, page...), reloadScript...)
}
