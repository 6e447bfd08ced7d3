// File path: internal/workflow/summary.go
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/retriever"
)

// SummarizeProgram runs step one: it checks whether the home
// university publishes an exchange call, summarises it from retrieved
// context and opens a session for the follow-up steps.
func (m *Manager) SummarizeProgram(ctx context.Context, homeUniversity string) (ProgramSummary, error) {
	homeUniversity = strings.TrimSpace(homeUniversity)
	if homeUniversity == "" {
		return ProgramSummary{}, fmt.Errorf("workflow: home university is required")
	}
	doc, err := m.catalog.ResolveAnnouncement(ctx, homeUniversity)
	if err != nil {
		return ProgramSummary{}, err
	}
	fragments, err := m.retriever.Retrieve(ctx, summaryQuery, doc.Institution)
	if err != nil {
		return ProgramSummary{}, err
	}
	if len(fragments) == 0 {
		// Nothing indexed for this institution. Do not burn a model
		// call on an empty context.
		common.Logger().Info("workflow: no indexed context", "institution", doc.Institution)
		return ProgramSummary{HasProgram: false}, nil
	}
	prompt := summaryPrompt(doc.Institution, retriever.Join(fragments))
	summary, err := llm.Generate(ctx, m.provider, prompt, m.cfg.GenerationTimeout)
	if err != nil {
		return ProgramSummary{}, err
	}
	sess, err := m.sessions.Create(doc.Institution)
	if err != nil {
		return ProgramSummary{}, fmt.Errorf("workflow: open session: %w", err)
	}
	return ProgramSummary{
		HasProgram:        true,
		Summary:           summary,
		SessionID:         sess.ID,
		Deadline:          doc.Deadline,
		LanguagesRequired: doc.Languages,
	}, nil
}
