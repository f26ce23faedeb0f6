package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	httpswagger "github.com/swaggo/http-swagger"

	"github.com/fisiolab/fisiosearch/pkg/lib"
	"github.com/fisiolab/fisiosearch/pkg/search"
)

//go:embed openapi.yaml
var openapiSpecYaml string

// searchEngine is the engine surface the API consumes.
type searchEngine interface {
	Search(ctx context.Context, req search.SearchRequest) (*search.SearchResult, error)
	CacheStats() search.CacheStats
	InvalidateCache()
}

type Server struct {
	engine searchEngine
	logger *zerolog.Logger
	http   http.Server
}

func NewServer(logger *zerolog.Logger, config *Config, engine searchEngine) *Server {
	mux := http.NewServeMux()

	server := &Server{
		engine: engine,
		logger: logger,
	}

	mux.HandleFunc("POST /api/v1/exercises/search", server.searchExercises)
	mux.HandleFunc("GET /api/v1/exercises/search/cache", server.cacheStats)
	mux.HandleFunc("DELETE /api/v1/exercises/search/cache", server.invalidateCache)
	server.registerApiDocsHandlers(mux)

	server.http = http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: requestIDMiddleware(corsMiddleware(mux, config.CORSOrigin)),
	}

	return server
}

func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	return s.http.Close()
}

func (s *Server) searchExercises(w http.ResponseWriter, r *http.Request) {
	var req search.SearchRequest
	if err := deserializeReq(r, &req); err != nil {
		s.badRequest(w, err, "deserialize search request")
		return
	}

	result, err := s.engine.Search(r.Context(), req)
	if err != nil {
		var ve lib.ValidationErrors
		if errors.As(err, &ve) {
			s.validationError(w, ve)
			return
		}
		s.internalError(w, err, "search exercises")
		return
	}

	s.serializeRes(w, result)
}

func (s *Server) cacheStats(w http.ResponseWriter, _ *http.Request) {
	s.serializeRes(w, s.engine.CacheStats())
}

func (s *Server) invalidateCache(w http.ResponseWriter, _ *http.Request) {
	s.engine.InvalidateCache()
	s.serializeRes(w, map[string]string{"message": "Search cache invalidated"})
}

func (s *Server) registerApiDocsHandlers(mux *http.ServeMux) {
	mux.Handle("/docs/", httpswagger.Handler(
		httpswagger.URL("/docs/openapi.yaml"),
	))
	mux.HandleFunc("/docs/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")

		_, err := w.Write([]byte(openapiSpecYaml))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			s.logger.Error().Err(err).Msg("response write error")
		}
	})
}

func corsMiddleware(next http.Handler, originConfig string) http.Handler {
	origins := strings.Split(originConfig, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestOrigin := r.Header.Get("Origin")

		if len(origins) == 1 && origins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if requestOrigin != "" && slices.Contains(origins, requestOrigin) {
			// CORS doesn't support multiple origins, so we either set
			// the request origin in the header or not at all.
			w.Header().Set("Access-Control-Allow-Origin", requestOrigin)
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)
	})
}

func deserializeReq[Req any](r *http.Request, req *Req) error {
	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	reqBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}

	err = json.Unmarshal(reqBytes, req)
	if err != nil {
		return fmt.Errorf("deserialize request body: %w", err)
	}

	return nil
}

func (s *Server) serializeRes(w http.ResponseWriter, res any) {
	w.Header().Add("Content-Type", "application/json")

	if res == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	err := json.NewEncoder(w).Encode(res)
	if err != nil {
		s.internalError(w, err, "serialize response")
	}
}

func (s *Server) validationError(w http.ResponseWriter, ve lib.ValidationErrors) {
	s.logger.Debug().Strs("errors", ve.Errors).Msg("search request rejected")

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(ve); err != nil {
		s.logger.Error().Err(err).Msg("serialize validation errors")
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error, msg string) {
	s.logger.Err(err).Msg(msg)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) badRequest(w http.ResponseWriter, err error, msg string) {
	s.logger.Err(err).Msg(msg)
	http.Error(w, err.Error(), http.StatusBadRequest)
}
