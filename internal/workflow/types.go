// File path: internal/workflow/types.go
// Package workflow orchestrates the three advisory steps: summarising
// the home university's exchange call, shortlisting destinations for a
// department, and checking a study plan against a destination's course
// catalog. All model output crosses this package as typed values.
package workflow

import (
	"context"

	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
	"github.com/davidemarchi/erasmus-advisor/internal/retriever"
	"github.com/davidemarchi/erasmus-advisor/internal/session"
)

// ProgramSummary is the outcome of step one.
type ProgramSummary struct {
	HasProgram        bool     `json:"has_program"`
	Summary           string   `json:"summary,omitempty"`
	SessionID         string   `json:"session_id,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
	LanguagesRequired []string `json:"languages_required,omitempty"`
}

// DestinationCandidate is one destination row the model extracted from
// the announcement section for a department.
type DestinationCandidate struct {
	Name                 string `json:"name"`
	Code                 string `json:"code,omitempty"`
	Capacity             int    `json:"capacity,omitempty"`
	Duration             string `json:"duration,omitempty"`
	Level                string `json:"level,omitempty"`
	LanguageRequirements string `json:"language_requirements,omitempty"`
	Description          string `json:"description,omitempty"`
}

// ExamMatch pairs one exam from the study plan with its closest
// counterpart at the destination.
type ExamMatch struct {
	StudentExam        string `json:"student_exam"`
	DestinationCourse  string `json:"destination_course"`
	CompatibilityTier  string `json:"compatibility_tier,omitempty"`
	CreditsStudent     int    `json:"credits_student,omitempty"`
	CreditsDestination int    `json:"credits_destination,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// ExamCompatibilityResult is the outcome of step three. The score
// ranges 0 to 100.
type ExamCompatibilityResult struct {
	MatchedExams       []ExamMatch `json:"matched_exams"`
	SuggestedExams     []string    `json:"suggested_exams"`
	CompatibilityScore float64     `json:"compatibility_score"`
	AnalysisSummary    string      `json:"analysis_summary"`
}

// ExamAnalysis wraps the compatibility result with a pointer back to
// the catalog document it was computed from.
type ExamAnalysis struct {
	Analysis    ExamCompatibilityResult `json:"analysis"`
	ExamsPDFURL string                  `json:"exams_pdf_url"`
}

// Catalog is the slice of the document registry the workflow needs.
type Catalog interface {
	ResolveAnnouncement(ctx context.Context, institution string) (catalog.Document, error)
	ResolveDestinationCatalog(ctx context.Context, institution string) (catalog.Document, error)
	ResolveCourseCatalog(ctx context.Context, institution string) (catalog.Document, error)
	Institutions(ctx context.Context) ([]string, error)
}

// CorpusProvider hands out document text, cached or fresh.
type CorpusProvider interface {
	Corpus(ctx context.Context, doc catalog.Document) (string, error)
	Text(ctx context.Context, doc catalog.Document) (string, error)
}

// FragmentRetriever searches the announcement index.
type FragmentRetriever interface {
	Retrieve(ctx context.Context, query, institution string) ([]retriever.Fragment, error)
}

// Sessions is the session store the workflow opens and validates
// sessions through.
type Sessions interface {
	Create(homeUniversity string) (session.Session, error)
	Get(id string) (session.Session, error)
	Delete(id string)
}
