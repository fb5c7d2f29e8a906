// Package server exposes the render engine over a JSON HTTP API: direct
// render endpoints, an in-memory template store for render-by-id, and a
// font resolvability probe.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/sarthakpriyadarshi/credrender/pkg/fontres"
	"github.com/sarthakpriyadarshi/credrender/pkg/render"
)

// ── Template store ──

type templateStore struct {
	mu        sync.RWMutex
	templates map[string]*render.Template
}

func newTemplateStore() *templateStore {
	return &templateStore{templates: make(map[string]*render.Template)}
}

func (ts *templateStore) add(t *render.Template) string {
	id := randomID()
	ts.mu.Lock()
	ts.templates[id] = t
	ts.mu.Unlock()
	return id
}

func (ts *templateStore) get(id string) (*render.Template, bool) {
	ts.mu.RLock()
	t, ok := ts.templates[id]
	ts.mu.RUnlock()
	return t, ok
}

func (ts *templateStore) list() []map[string]any {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	result := make([]map[string]any, 0, len(ts.templates))
	for id, t := range ts.templates {
		result = append(result, map[string]any{
			"id":           id,
			"name":         t.Name,
			"type":         t.Type,
			"placeholders": len(t.Placeholders),
		})
	}
	return result
}

func (ts *templateStore) remove(id string) {
	ts.mu.Lock()
	delete(ts.templates, id)
	ts.mu.Unlock()
}

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ── Server ──

type Server struct {
	compositor *render.Compositor
	resolver   *fontres.Resolver
	templates  *templateStore
	logger     *slog.Logger
}

// Options configures the API server. FontClient overrides the default
// acquisition client (tests point it at a fake backend).
type Options struct {
	FontCacheDir string
	FontClient   *fontres.Client
	Logger       *slog.Logger
}

// New builds the server and its shared render stack.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolver, err := fontres.NewResolver(fontres.ResolverOptions{
		Client:   opts.FontClient,
		CacheDir: opts.FontCacheDir,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("font resolver: %w", err)
	}

	compositor, err := render.NewCompositor(render.CompositorOptions{
		Resolver: resolver,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("compositor: %w", err)
	}

	return &Server{
		compositor: compositor,
		resolver:   resolver,
		templates:  newTemplateStore(),
		logger:     logger,
	}, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render/certificate", s.handleRender(s.compositor.RenderCertificate))
	mux.HandleFunc("POST /api/render/badge", s.handleRender(s.compositor.RenderBadge))

	mux.HandleFunc("POST /api/templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", s.handleDeleteTemplate)
	mux.HandleFunc("POST /api/templates/{id}/render", s.handleRenderTemplate)

	mux.HandleFunc("GET /api/fonts/{family}", s.handleFontProbe)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func parseServeFlags(args []string) (port, cacheDir string, err error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&port, "port", "8080", "port to listen on")
	fs.StringVar(&port, "p", "8080", "port to listen on (shorthand)")
	fs.StringVar(&cacheDir, "font-cache-dir", "", "directory for downloaded fonts")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	return port, cacheDir, nil
}

// RunServe starts the API server on the given port.
func RunServe(args []string) error {
	port, cacheDir, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	s, err := New(Options{
		FontCacheDir: cacheDir,
		Logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if err != nil {
		return err
	}

	addr := ":" + port
	s.logger.Info("credrender API listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ── Render ──

type renderFunc func(ctx context.Context, req render.RenderRequest) (*render.RenderResult, error)

func (s *Server) handleRender(fn renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req render.RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}

		result, err := fn(r.Context(), req)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type renderByIDRequest struct {
	Values    map[string]string `json:"values"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

func (s *Server) handleRenderTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.templates.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown template"))
		return
	}

	var body renderByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req := t.Request(&render.Values{Values: body.Values, Overrides: body.Overrides})

	renderOp := s.compositor.RenderCertificate
	if t.Type == "badge" {
		renderOp = s.compositor.RenderBadge
	}

	result, err := renderOp(r.Context(), req)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ── Templates ──

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t render.Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode template: %w", err))
		return
	}
	if err := render.ValidatePlaceholders(t.Placeholders); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.templates.add(&t)
	s.logger.Info("template stored", "id", id, "name", t.Name)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.templates.list())
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.templates.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown template"))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.templates.remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// ── Fonts ──

func (s *Server) handleFontProbe(w http.ResponseWriter, r *http.Request) {
	family := r.PathValue("family")
	res := s.resolver.Resolve(r.Context(), family, fontres.DefaultWeight)
	writeJSON(w, http.StatusOK, map[string]any{
		"available":       res.Available,
		"effectiveFamily": res.EffectiveFamily,
	})
}

// ── Responses ──

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeRenderError maps engine errors to status codes: input problems are
// the caller's bug (400), anything the compositor normalized is 422.
func writeRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, render.ErrInvalidInput),
		errors.Is(err, render.ErrUnsupportedFormat),
		errors.Is(err, render.ErrCorruptImage):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusUnprocessableEntity, err)
	}
}
