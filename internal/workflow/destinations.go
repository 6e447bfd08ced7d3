// File path: internal/workflow/destinations.go
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/section"
)

// Periods accepted by step two.
const (
	PeriodFall   = "fall"
	PeriodSpring = "spring"
)

// ValidPeriod reports whether p names a supported exchange semester.
func ValidPeriod(p string) bool {
	return p == PeriodFall || p == PeriodSpring
}

// ListDestinations runs step two: it extracts the department's section
// from the destination catalog of the session's institution and has
// the model turn the table rows into structured candidates. Parse
// failures are returned to the caller; a wrong destination list is
// worse than no list.
func (m *Manager) ListDestinations(ctx context.Context, sessionID, department, studyPlan, period string) ([]DestinationCandidate, error) {
	sess, err := m.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, fmt.Errorf("workflow: department is required")
	}
	if !ValidPeriod(period) {
		return nil, fmt.Errorf("workflow: invalid period %q", period)
	}
	doc, err := m.catalog.ResolveDestinationCatalog(ctx, sess.HomeUniversity)
	if err != nil {
		return nil, err
	}
	corpus, err := m.docs.Corpus(ctx, doc)
	if err != nil {
		return nil, err
	}
	sec, err := section.Extract(corpus, department)
	if err != nil {
		return nil, err
	}
	prompt := destinationsPrompt(department, period, studyPlan, sec.RawText)
	raw, err := llm.Generate(ctx, m.provider, prompt, m.cfg.GenerationTimeout)
	if err != nil {
		return nil, err
	}
	candidates, err := llm.Decode[[]DestinationCandidate](raw, llm.ShapeArray)
	if err != nil {
		return nil, fmt.Errorf("workflow: destinations for %s: %w", department, err)
	}
	return candidates, nil
}
