// Package httpapi serves the installed menu trees, protocol descriptors, and
// icon assets over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"menucore/internal/blob"
	"menucore/internal/core"
	"menucore/pkg/menu"
)

// API wires the menu service and icon store into HTTP handlers.
type API struct {
	svc      *core.Service
	icons    blob.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	requests IncrementalCounter
}

// APIOption customizes API construction.
type APIOption func(*API)

// WithAPILogger sets the request logger.
func WithAPILogger(logger *slog.Logger) APIOption {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIconStore attaches an icon asset backend served under /v1/icons/.
func WithIconStore(store blob.Store) APIOption {
	return func(a *API) { a.icons = store }
}

// NewAPI constructs the handler set around the menu service. Each API owns
// its prometheus registry so tests do not collide on metric names.
func NewAPI(svc *core.Service, opts ...APIOption) *API {
	registry := prometheus.NewRegistry()
	a := &API{
		svc:      svc,
		logger:   slog.Default(),
		registry: registry,
		requests: NewCounterWithRegistry(registry, "menucore_http_requests_total",
			"HTTP requests by route and status code.", "path", "code"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry exposes the API's metric registry for composition with the server.
func (a *API) Registry() *prometheus.Registry { return a.registry }

// Routes returns a mux with all API endpoints registered.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /v1/menu", a.instrument("/v1/menu", a.handleMenus))
	mux.Handle("GET /v1/menu/{name}", a.instrument("/v1/menu/{name}", a.handleMenu))
	mux.Handle("PUT /v1/menu/{name}", a.instrument("/v1/menu/{name}", a.handleReplaceMenu))
	mux.Handle("GET /v1/protocols", a.instrument("/v1/protocols", a.handleProtocols))
	mux.Handle("GET /v1/protocols/{key}", a.instrument("/v1/protocols/{key}", a.handleProtocol))
	mux.Handle("GET /v1/plugins", a.instrument("/v1/plugins", a.handlePlugins))
	mux.Handle("GET /v1/icons/{key...}", a.instrument("/v1/icons", a.handleIcon))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", MetricsHandlerFor(a.registry))
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *API) instrument(route string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		handler(rec, r)
		a.requests.Increment(route, fmt.Sprintf("%d", rec.code))
		a.logger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "status", rec.code)
	})
}

// handleMenus serves every installed menu as one ordered document keyed by
// menu name.
func (a *API) handleMenus(w http.ResponseWriter, r *http.Request) {
	doc := menu.Document{}
	for _, stored := range a.svc.Menus(r.Context()) {
		doc.Menus = append(doc.Menus, menu.Menu{Name: stored.Name, Nodes: stored.Nodes})
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) handleMenu(w http.ResponseWriter, r *http.Request) {
	doc, err := a.svc.Menu(r.Context(), r.PathValue("name"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) handleReplaceMenu(w http.ResponseWriter, r *http.Request) {
	var nodes []menu.Node
	if err := json.NewDecoder(r.Body).Decode(&nodes); err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode nodes: %v", err))
		return
	}
	doc, _, err := a.svc.ReplaceMenuDocument(r.Context(), r.PathValue("name"), nodes)
	if err != nil {
		var violation core.RuleViolationError
		if errors.As(err, &violation) {
			a.writeJSON(w, http.StatusUnprocessableEntity, violation.Result)
			return
		}
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) handleProtocols(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.svc.ListProtocols(r.Context()))
}

func (a *API) handleProtocol(w http.ResponseWriter, r *http.Request) {
	desc, err := a.svc.ResolveProtocol(r.Context(), r.PathValue("key"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, desc)
}

func (a *API) handlePlugins(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.svc.RegisteredPlugins())
}

func (a *API) handleIcon(w http.ResponseWriter, r *http.Request) {
	if a.icons == nil {
		a.writeError(w, http.StatusNotFound, "icon storage not configured")
		return
	}
	key := r.PathValue("key")
	info, rc, err := a.icons.Get(r.Context(), key)
	if errors.Is(err, blob.ErrNotFound) {
		a.writeError(w, http.StatusNotFound, fmt.Sprintf("icon %s not found", key))
		return
	}
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "icon lookup failed")
		return
	}
	defer func() { _ = rc.Close() }()
	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		a.logger.Error("stream icon", "key", key, "error", err)
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var notFound core.ErrNotFound
	if errors.As(err, &notFound) {
		a.writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	a.writeError(w, http.StatusInternalServerError, "internal error, see logs for details")
	a.logger.Error("request failed", "error", err)
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		a.logger.Error("marshal response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		a.logger.Error("write response", "error", err)
	}
}
