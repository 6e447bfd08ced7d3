// File path: internal/api/server.go
// Package api exposes the advisory workflow over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/retriever"
	"github.com/davidemarchi/erasmus-advisor/internal/section"
	"github.com/davidemarchi/erasmus-advisor/internal/session"
	"github.com/davidemarchi/erasmus-advisor/internal/workflow"
)

// Server owns the router and delegates every operation to the
// workflow manager.
type Server struct {
	manager Manager
	router  chi.Router
}

// Manager is the workflow surface the server depends on.
type Manager interface {
	SummarizeProgram(ctx context.Context, homeUniversity string) (workflow.ProgramSummary, error)
	ListDestinations(ctx context.Context, sessionID, department, studyPlan, period string) ([]workflow.DestinationCandidate, error)
	AnalyzeExams(ctx context.Context, destination, studyPlan string) (workflow.ExamAnalysis, error)
	Universities(ctx context.Context) ([]string, error)
}

func NewServer(manager Manager) *Server {
	s := &Server{manager: manager}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/step1", s.handleStep1)
		r.Post("/step2", s.handleStep2)
		r.Post("/step3", s.handleStep3)
		r.Get("/universities", s.handleUniversities)
		r.Get("/logs", s.handleLogs)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		common.Logger().Info("api: request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStep1(w http.ResponseWriter, r *http.Request) {
	var req step1Request
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.manager.SummarizeProgram(r.Context(), req.HomeUniversity)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStep2(w http.ResponseWriter, r *http.Request) {
	var req step2Request
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	destinations, err := s.manager.ListDestinations(r.Context(), req.SessionID, req.Department, joinPlan(req.StudyPlan), req.Period)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if destinations == nil {
		destinations = []workflow.DestinationCandidate{}
	}
	writeJSON(w, http.StatusOK, step2Response{Destinations: destinations})
}

func (s *Server) handleStep3(w http.ResponseWriter, r *http.Request) {
	var req step3Request
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	analysis, err := s.manager.AnalyzeExams(r.Context(), req.Destination, joinPlan(req.StudyPlan))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleUniversities(w http.ResponseWriter, r *http.Request) {
	names, err := s.manager.Universities(r.Context())
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, universitiesResponse{Universities: names})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"logs": common.LogEntries()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

// writeWorkflowError maps the error taxonomy onto HTTP statuses.
// Missing documents and sections are the caller naming something the
// catalog does not have; upstream model and index failures are
// gateway problems; an ambiguous catalog is a server misconfiguration.
func writeWorkflowError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrDocumentNotFound),
		errors.Is(err, section.ErrDepartmentNotFound),
		errors.Is(err, section.ErrEmptySection):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSession):
		status = http.StatusBadRequest
	case errors.Is(err, retriever.ErrIndexUnavailable),
		errors.Is(err, llm.ErrGenerationFailed),
		errors.Is(err, llm.ErrEmptyResponse),
		errors.Is(err, llm.ErrNoStructuredContent),
		errors.Is(err, llm.ErrMalformedContent),
		errors.Is(err, llm.ErrShapeMismatch):
		status = http.StatusBadGateway
	case errors.Is(err, catalog.ErrAmbiguousInstitution):
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		common.Logger().Error("api: request failed", "status", status, "error", err)
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		common.Logger().Error("api: encode response", "error", err)
	}
}
