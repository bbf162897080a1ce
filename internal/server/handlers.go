package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/gasfinder/internal/fuel"
	"github.com/rubiojr/gasfinder/internal/gasdb"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search handles GET /search?target=&page=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := q.Get("target")

	page, err := intParam(q, "page", 1)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	limit, err := intParam(q, "limit", h.cfg.DefaultPageSize)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	limit = min(limit, h.cfg.MaxPageSize)

	day := h.cfg.Now().Format(gasdb.DateLayout)
	key := fmt.Sprintf("search:%s:%s:%d:%d", day, target, page, limit)
	h.serveFromCacheOrCompute(w, r, key, func() (any, error) {
		return h.svc.Search(r.Context(), target, page, limit)
	})
}

// Stats handles GET /stats?location=. The body is null when nothing matches.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	h.serveFromCacheOrCompute(w, r, "stats:"+location, func() (any, error) {
		return h.svc.Stats(r.Context(), location)
	})
}

// Suggestions handles GET /suggestions?q=.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	h.serveFromCacheOrCompute(w, r, "suggestions:"+prefix, func() (any, error) {
		return h.svc.Suggest(r.Context(), prefix)
	})
}

// History handles GET /history?id=. It is never cached.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		h.badRequest(w, errors.New("missing id"))
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.badRequest(w, fmt.Errorf("invalid id %q", raw))
		return
	}

	history, err := h.svc.History(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	if h.cache != nil {
		if data, ok := h.cache.Get(key); ok {
			h.metrics.IncCacheHits()
			writeRaw(w, http.StatusOK, data.([]byte))
			return
		}
		h.metrics.IncCacheMisses()
	}

	result, err := compute()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("error encoding response: %w", err))
		return
	}

	if h.cache != nil {
		h.cache.Set(key, data, cache.DefaultExpiration)
	}
	writeRaw(w, http.StatusOK, data)
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, fuel.ErrInvalidArgument) {
		h.badRequest(w, err)
		return
	}
	h.log.Error("Request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// intParam reads a positive integer query parameter, falling back to def
// when it is absent.
func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
