// File path: internal/workflow/exams.go
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
)

// AnalyzeExams runs step three: it compares the student's study plan
// against the destination's course catalog. Unlike step two, a model
// output that fails to parse does not fail the request; the student
// still gets the catalog reference and an explanation, just no
// structured matches.
func (m *Manager) AnalyzeExams(ctx context.Context, destination, studyPlan string) (ExamAnalysis, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return ExamAnalysis{}, fmt.Errorf("workflow: destination is required")
	}
	if strings.TrimSpace(studyPlan) == "" {
		return ExamAnalysis{}, fmt.Errorf("workflow: study plan is required")
	}
	doc, err := m.catalog.ResolveCourseCatalog(ctx, destination)
	if err != nil {
		return ExamAnalysis{}, err
	}
	text, err := m.docs.Text(ctx, doc)
	if err != nil {
		return ExamAnalysis{}, err
	}
	prompt := examsPrompt(doc.Institution, studyPlan, text)
	raw, err := llm.Generate(ctx, m.provider, prompt, m.cfg.GenerationTimeout)
	if err != nil {
		return ExamAnalysis{}, err
	}
	analysis := ExamAnalysis{ExamsPDFURL: doc.Path}
	result, err := llm.Decode[ExamCompatibilityResult](raw, llm.ShapeObject)
	if err != nil {
		common.Logger().Warn("workflow: exam analysis not structured",
			"destination", doc.Institution,
			"error", err,
			"raw", truncate(raw, 200))
		analysis.Analysis = ExamCompatibilityResult{
			MatchedExams:       []ExamMatch{},
			SuggestedExams:     []string{},
			CompatibilityScore: 0,
			AnalysisSummary:    "The assistant could not produce a structured comparison for this catalog. Review the course catalog manually: " + doc.Filename,
		}
		return analysis, nil
	}
	if result.MatchedExams == nil {
		result.MatchedExams = []ExamMatch{}
	}
	if result.SuggestedExams == nil {
		result.SuggestedExams = []string{}
	}
	analysis.Analysis = result
	return analysis, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
