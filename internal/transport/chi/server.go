package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/netquery/internal/domain"
	domquery "github.com/kailas-cloud/netquery/internal/domain/query"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
	logpkg "github.com/kailas-cloud/netquery/internal/logger"
	"github.com/kailas-cloud/netquery/internal/transport/api"
	healthuc "github.com/kailas-cloud/netquery/internal/usecase/health"
	"github.com/kailas-cloud/netquery/internal/usecase/integration"
)

// Fixed client-facing messages. The underlying error goes to "details".
const (
	msgQueryInvalid   = "Query and company name are required"
	msgCRMInvalid     = "Query, company name, and external user ID are required"
	msgScopeNotFound  = "Company not found"
	msgQueryFailed    = "Failed to process query"
	msgCRMFailed      = "Failed to process CRM query"
	msgUpstreamFailed = "Upstream query service failed"
	msgInvalidBody    = "Invalid request body"
)

const maxBodyBytes = 1 << 20

type queryHandler interface {
	Handle(ctx context.Context, q domquery.Query) (domquery.Result, error)
}

type crmHandler interface {
	Handle(ctx context.Context, req integration.Request) (integration.Envelope, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler writes a response for err if it recognizes its kind. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, fallback string) bool

// Server serves the query API.
type Server struct {
	query         queryHandler
	crm           crmHandler
	health        healthChecker
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. crm can be nil, which leaves the CRM route unmounted.
func NewServer(query queryHandler, crm crmHandler, health healthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		query:    query,
		crm:      crm,
		health:   health,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		errorHandlers: []errorHandler{
			kindHandler(domain.KindScopeNotFound, http.StatusNotFound, msgScopeNotFound),
			kindHandler(domain.KindDownstreamCallFailed, http.StatusBadGateway, msgUpstreamFailed),
			kindHandler(domain.KindRetrievalUnavailable, http.StatusInternalServerError, ""),
			kindHandler(domain.KindMalformedMatch, http.StatusInternalServerError, ""),
		},
	}
}

// Routes mounts the API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Post(api.PathQuery, s.Query)
	if s.crm != nil {
		r.Post(api.PathCRMQuery, s.CRMQuery)
	}
	r.Get(api.PathHealth, s.HealthCheck)
	r.Get(api.PathMetrics, s.Metrics)
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if !s.decode(w, r, &req, msgQueryInvalid) {
		return
	}

	q, err := domquery.New(req.Query, req.CompanyName, req.RequesterID)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.KindInvalidInput, msgQueryInvalid, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.query.Handle(ctx, q)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err, msgQueryInvalid, msgQueryFailed)
		return
	}

	writeJSON(w, http.StatusOK, api.QueryResponse{
		Success:         true,
		Query:           res.Query,
		CompanyID:       res.Scope.CompanyID(),
		Response:        res.Summary,
		Connections:     api.ConnectionsToAPI(res.Connections),
		Recommendations: recommendation.Views(res.Recommendations),
		TotalResults:    res.TotalResults(),
	})
}

// CRMQuery handles POST /integrations/crm/query.
func (s *Server) CRMQuery(w http.ResponseWriter, r *http.Request) {
	var req api.CRMQueryRequest
	if !s.decode(w, r, &req, msgCRMInvalid) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	env, err := s.crm.Handle(ctx, integration.Request{
		Query:            req.Query,
		CompanyName:      req.CompanyName,
		ExternalUserID:   req.ExternalUserID,
		ExternalOrgID:    req.ExternalOrgID,
		ExternalRecordID: req.ExternalRecordID,
	})
	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err, msgCRMInvalid, msgCRMFailed)
		return
	}

	writeJSON(w, http.StatusOK, api.CRMQueryResponse{Success: true, Data: env})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, api.HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads and validates a JSON body. It writes the 400 itself and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, invalidMsg string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, domain.KindInvalidInput, msgInvalidBody, err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, domain.KindInvalidInput, invalidMsg, validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	return fe.Field() + " failed " + fe.Tag() + " validation"
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind domain.ErrorKind, message, details string) {
	writeJSON(w, status, api.ErrorResponse{
		Error:   message,
		Code:    string(kind),
		Details: details,
	})
}

// kindHandler maps one error kind to a status. An empty message means the endpoint's fallback.
func kindHandler(kind domain.ErrorKind, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error, fallback string) bool {
		if domain.KindOf(err) != kind {
			return false
		}
		msg := message
		if msg == "" {
			msg = fallback
		}
		writeError(w, status, kind, msg, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, invalidMsg, failedMsg string) {
	log := logpkg.FromContext(r.Context())
	kind := domain.KindOf(err)

	if kind == domain.KindInvalidInput {
		log.Warn("invalid query", zap.Error(err))
		writeError(w, http.StatusBadRequest, kind, invalidMsg, err.Error())
		return
	}

	log.Warn("query failed", zap.String("kind", string(kind)), zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, failedMsg) {
			return
		}
	}

	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, domain.KindInternal, failedMsg, err.Error())
}
