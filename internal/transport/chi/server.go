package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog/query"
	logpkg "github.com/kailas-cloud/catalogd/internal/logger"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface on top of the catalog resolver.
type Server struct {
	catalog         *cataloguc.Service
	health          *healthuc.Service
	defaultPageSize int
	logger          *zap.Logger
	errorHandlers   []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog:         catalog,
		health:          health,
		defaultPageSize: domain.DefaultPageSize,
		logger:          logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeInvalidQuery),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeProductNotFound),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeUnavailable),
	}
	return s
}

// WithDefaultPageSize sets the page size used when a request does not carry one.
func (s *Server) WithDefaultPageSize(n int) *Server {
	if n > 0 {
		s.defaultPageSize = n
	}
	return s
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request, params ListProductsParams) {
	q := query.Query{Page: 1, PageSize: s.defaultPageSize}
	if params.Search != nil {
		q.Search = *params.Search
	}
	if params.Categories != nil {
		q.Categories = *params.Categories
	}
	if params.Brands != nil {
		q.Brands = *params.Brands
	}
	q.PriceMin = params.PriceMin
	q.PriceMax = params.PriceMax
	if params.Page != nil {
		if *params.Page < 1 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidQuery, "page must be at least 1")
			return
		}
		q.Page = *params.Page
	}
	if params.PageSize != nil {
		if *params.PageSize < 1 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidQuery, "pageSize must be at least 1")
			return
		}
		q.PageSize = *params.PageSize
	}

	env, err := s.catalog.ListProducts(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// GetFacets handles GET /facets.
func (s *Server) GetFacets(w http.ResponseWriter, r *http.Request) {
	f, err := s.catalog.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Invalid-query details are the caller's own input, so they are passed through.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	for _, s := range []error{domain.ErrNotFound, domain.ErrUnavailable} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
