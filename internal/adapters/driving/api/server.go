// Package api exposes ingestion and search over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/custodia-labs/newsearch/internal/core/domain"
	"github.com/custodia-labs/newsearch/internal/core/ports/driving"
	"github.com/custodia-labs/newsearch/internal/logger"
)

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server wires the ingestion and search services into an HTTP API.
type Server struct {
	ingestor driving.Ingestor
	searcher driving.Searcher
	http     *http.Server
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// searchResponse is the JSON body for search results.
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ArticleID   int64      `json:"article_id"`
	Title       string     `json:"title"`
	URL         string     `json:"url,omitempty"`
	Preview     string     `json:"preview,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Distance    float64    `json:"distance"`
}

// NewServer creates the HTTP server with routing and CORS configured.
func NewServer(cfg Config, ingestor driving.Ingestor, searcher driving.Searcher) *Server {
	s := &Server{
		ingestor: ingestor,
		searcher: searcher,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/articles/{source}", s.handleIngest).Methods(http.MethodGet)
	v1.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	var handler http.Handler = router
	if len(cfg.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler(router)
	}

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the configured HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe runs the server until it fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("HTTP API listening on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngest triggers an ingestion run for the named source and returns
// the run summary.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	source := mux.Vars(r)["source"]
	query := r.URL.Query().Get("q")

	summary, err := s.ingestor.Ingest(r.Context(), source, query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "k must be an integer"})
			return
		}
		k = parsed
	}

	results, err := s.searcher.Search(r.Context(), query, k)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := searchResponse{
		Query:   query,
		Results: make([]searchResult, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, searchResult{
			ArticleID:   r.Article.ID,
			Title:       r.Article.Title,
			URL:         r.Article.URL,
			Preview:     r.Article.Preview,
			PublishedAt: r.Article.PublishedAt,
			Distance:    r.Distance,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownSource), errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable),
		errors.Is(err, domain.ErrProviderFailure):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encoding response: %v", err)
	}
}
