// File path: internal/workflow/manager.go
package workflow

import (
	"context"
	"time"

	"github.com/davidemarchi/erasmus-advisor/internal/llm"
)

// Config tunes the manager. Zero values fall back to the defaults
// below. How many fragments step one sees is the retriever's knob,
// not the manager's.
type Config struct {
	GenerationTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = llm.DefaultTimeout
	}
}

// Manager runs the advisory steps against the catalog, the retriever,
// the document service and the model provider.
type Manager struct {
	catalog   Catalog
	docs      CorpusProvider
	retriever FragmentRetriever
	sessions  Sessions
	provider  llm.Provider
	cfg       Config
}

func NewManager(catalog Catalog, docs CorpusProvider, fragments FragmentRetriever, sessions Sessions, provider llm.Provider, cfg Config) *Manager {
	cfg.applyDefaults()
	return &Manager{
		catalog:   catalog,
		docs:      docs,
		retriever: fragments,
		sessions:  sessions,
		provider:  provider,
		cfg:       cfg,
	}
}

// Universities lists the institutions with a registered announcement.
func (m *Manager) Universities(ctx context.Context) ([]string, error) {
	return m.catalog.Institutions(ctx)
}
