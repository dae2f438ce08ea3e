// Package chi exposes the assessment API over HTTP.
package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
	assessmentuc "github.com/kailas-cloud/placeqa/internal/usecase/assessment"
	healthuc "github.com/kailas-cloud/placeqa/internal/usecase/health"
)

const maxBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the assessment API.
type Server struct {
	assessments   *assessmentuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	assessments *assessmentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		assessments: assessments,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorResponseCodeInvalidArgument),
		sentinelHandler(domain.ErrLocationNotFound, http.StatusNotFound, ErrorResponseCodeLocationNotFound),
		sentinelHandler(domain.ErrNoResults, http.StatusNotFound, ErrorResponseCodeNoResults),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusTooManyRequests, ErrorResponseCodeQuotaExceeded),
		sentinelHandler(domain.ErrRequestDenied, http.StatusBadGateway, ErrorResponseCodeRequestDenied),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, ErrorResponseCodeProviderError),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assessments", s.CreateAssessment)
		r.Get("/assessments", s.GetAssessment)
		r.Post("/analyze", s.Analyze)
	})
}

// CreateAssessment handles POST /api/v1/assessments.
func (s *Server) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, "Invalid request body: "+err.Error())
		return
	}

	q := assessmentuc.Query{Location: req.Location, Categories: req.Categories}
	if req.RadiusMeters != nil {
		if *req.RadiusMeters == 0 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, "radius_meters must be positive")
			return
		}
		q.RadiusMeters = *req.RadiusMeters
	}

	s.assess(w, r, q)
}

// GetAssessment handles GET /api/v1/assessments?location=&radius_meters=&categories=.
func (s *Server) GetAssessment(w http.ResponseWriter, r *http.Request) {
	var (
		location   string
		radius     *int
		categories *[]string
	)
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "location", query, &location); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "radius_meters", query, &radius); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "categories", query, &categories); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, err.Error())
		return
	}

	q := assessmentuc.Query{Location: location}
	if categories != nil {
		q.Categories = *categories
	}
	if radius != nil {
		if *radius == 0 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, "radius_meters must be positive")
			return
		}
		q.RadiusMeters = *radius
	}

	s.assess(w, r, q)
}

func (s *Server) assess(w http.ResponseWriter, r *http.Request, q assessmentuc.Query) {
	ctx, usage := domain.NewContextWithProviderUsage(r.Context())

	res, err := s.assessments.Assess(ctx, q)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Analyze handles POST /api/v1/analyze. The body is {"records": [...]}.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records json.RawMessage `json:"records"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidArgument, "Invalid request body: "+err.Error())
		return
	}

	records, err := decodeRecords(req.Records)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.assessments.Analyze(r.Context(), records)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decodeRecords returns nil for an absent or null list so the usecase can
// reject it, and an invalid-argument error for anything that is not an array.
func decodeRecords(raw json.RawMessage) ([]place.Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("records must be an array: %w", domain.ErrInvalidArgument)
	}

	var records []place.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w: %w", domain.ErrInvalidArgument, err)
	}
	return records, nil
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

func setUsageHeaders(w http.ResponseWriter, usage *domain.ProviderUsage) {
	if usage == nil {
		return
	}
	w.Header().Set("X-Provider-Calls", strconv.FormatInt(usage.Calls(), 10))
	w.Header().Set("X-Cache-Hits", strconv.FormatInt(usage.CacheHits(), 10))
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

// safeDomainMessage returns a client-safe message. Invalid-argument errors are
// caller-facing and keep their detail; everything else is reduced to the sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrLocationNotFound,
		domain.ErrNoResults,
		domain.ErrQuotaExceeded,
		domain.ErrRequestDenied,
		domain.ErrProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
