package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/links"
	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
	"github.com/imfreedom/urlmap/internal/version"
)

// EntryResponse is the body of a single namespace lookup
type EntryResponse struct {
	Namespace string `json:"namespace"`
	BaseURL   string `json:"base_url"`
}

// ResolveResponse is the body of a reference resolution
type ResolveResponse struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

// StatusResponse describes the running server
type StatusResponse struct {
	Version string `json:"version"`
	Entries int    `json:"entries"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Handler returns the HTTP handler for all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/namespaces", s.handleNamespaces)
	mux.HandleFunc("GET /api/v1/namespaces/{namespace}", s.handleLookup)
	mux.HandleFunc("GET /api/v1/resolve", s.handleResolve)
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /urlmap.js", s.handleJS)
	mux.HandleFunc("GET /go/{namespace}/{page...}", s.handleRedirect)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return logRequests(mux)
}

func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Table())
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	table := s.Table()
	namespace := r.PathValue("namespace")

	baseURL, err := table.Lookup(namespace)
	logging.LogLookup(namespace, baseURL, err)
	if err != nil {
		writeLookupError(w, table, namespace, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Namespace: namespace, BaseURL: baseURL})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	table := s.Table()
	text := r.URL.Query().Get("ref")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing ref query parameter"})
		return
	}

	ref, err := links.ParseRef(text)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	url, err := links.NewResolver(table).URL(ref)
	if err != nil {
		writeLookupError(w, table, ref.Namespace, err)
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Ref: ref.String(), URL: url})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Version: version.Version,
		Entries: s.Table().Len(),
	})
}

func (s *Server) handleJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	if err := urlmap.RenderJS(w, s.Table()); err != nil {
		logging.Warn("Failed to write urlmap.js", zap.Error(err))
	}
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	table := s.Table()
	namespace := r.PathValue("namespace")
	page := r.PathValue("page")

	if strings.Contains(page, "..") || strings.HasPrefix(page, "/") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid page path"})
		return
	}

	baseURL, err := table.Lookup(namespace)
	logging.LogLookup(namespace, baseURL, err)
	if err != nil {
		writeLookupError(w, table, namespace, err)
		return
	}

	http.Redirect(w, r, baseURL+page, http.StatusFound)
}

// writeLookupError maps a lookup failure onto a status code
func writeLookupError(w http.ResponseWriter, table *urlmap.Table, namespace string, err error) {
	switch {
	case errors.Is(err, urlmap.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:       err.Error(),
			Suggestions: table.Similar(namespace),
		})
	case errors.Is(err, urlmap.ErrEmptyNamespace):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn("Failed to encode response", zap.Error(err))
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to the WebSocket upgrader
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
