// Package server exposes catalogue searches over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/lehigh-university-libraries/opacbridge/config"
	"github.com/lehigh-university-libraries/opacbridge/mets"
	"github.com/lehigh-university-libraries/opacbridge/opac"
	"github.com/lehigh-university-libraries/opacbridge/source"
)

// Server serves the search API.
type Server struct {
	Service *opac.Service

	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string

	// AccessLog receives combined-format access logs; nil disables them
	AccessLog io.Writer
}

type catalogueInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Backend     string `json:"backend"`
	Database    string `json:"database"`
}

type errorResponse struct {
	Hits  int    `json:"hits"`
	Error string `json:"error,omitempty"`
}

// Handler returns the HTTP handler with routing, CORS and access logging.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/catalogues", s.listCatalogues).Methods(http.MethodGet)
	router.HandleFunc("/catalogues/{name}/search", s.search).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	var h http.Handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodOptions}),
	)(router)

	if s.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(s.AccessLog, h)
	}
	return h
}

func (s *Server) listCatalogues(w http.ResponseWriter, r *http.Request) {
	infos := make([]catalogueInfo, 0, len(s.Service.App.Catalogues))
	for _, c := range s.Service.App.Catalogues {
		infos = append(infos, catalogueInfo{
			Name:        c.Name,
			Description: c.Description,
			Backend:     c.Backend,
			Database:    c.Database,
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	q := r.URL.Query()
	req := opac.Request{
		Workflow: q.Get("workflow"),
		Field:    q.Get("field"),
		Term:     q.Get("term"),
	}

	res, err := s.Service.Search(r.Context(), name, req)
	if err != nil {
		status := statusFor(err)
		slog.Warn("search failed", "catalogue", name, "field", req.Field, "term", req.Term, "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	if !res.Found() {
		writeJSON(w, http.StatusNotFound, errorResponse{Hits: 0})
		return
	}

	format := q.Get("format")
	switch format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		format = "json"
	case "mets", "xml":
		w.Header().Set("Content-Type", "application/xml")
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown format: " + format})
		return
	}
	w.Header().Set("X-Hit-Count", "1")
	w.Header().Set("X-Doc-Type", res.DocType)
	w.WriteHeader(http.StatusOK)
	if err := res.Document.Write(w, format, true); err != nil {
		slog.Error("writing document", "catalogue", name, "error", err)
	}
}

func statusFor(err error) int {
	var unknownCatalogue *config.UnknownCatalogueError
	switch {
	case errors.As(err, &unknownCatalogue):
		return http.StatusNotFound
	case errors.Is(err, opac.ErrBadRequest), errors.Is(err, source.ErrUnknownSearchField):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrNoConfig), errors.Is(err, mets.ErrUnknownDocType):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "catalogues", s.Service.App.CatalogueNames())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
