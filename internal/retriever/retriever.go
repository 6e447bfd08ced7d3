// File path: internal/retriever/retriever.go
// Package retriever answers free text queries against the indexed
// announcement corpus by embedding the query and searching the vector
// store.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/vector"
)

// ErrIndexUnavailable reports that the similarity index could not be
// reached or could not serve the query.
var ErrIndexUnavailable = errors.New("retriever: index unavailable")

// Fragment is one retrieved slice of context, ranked by similarity.
type Fragment struct {
	Content     string
	Source      string
	Institution string
	Rank        int
	Score       float64
}

// Retriever embeds queries with the configured provider and searches
// the vector store. A zero topK falls back to DefaultTopK.
type Retriever struct {
	store    vector.Store
	provider llm.Provider
	topK     int
}

const DefaultTopK = 5

func New(store vector.Store, provider llm.Provider, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{store: store, provider: provider, topK: topK}
}

// Retrieve returns up to topK fragments matching the query, restricted
// to the given institution when one is supplied. An empty result set
// is not an error; callers decide what no context means.
func (r *Retriever) Retrieve(ctx context.Context, query, institution string) ([]Fragment, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("retriever: empty query")
	}
	vectors, err := r.provider.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrIndexUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: provider returned no embedding", ErrIndexUnavailable)
	}
	var filter map[string]string
	if institution = strings.TrimSpace(institution); institution != "" {
		filter = map[string]string{"institution": institution}
	}
	results, err := r.store.Search(ctx, vectors[0], r.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	fragments := make([]Fragment, 0, len(results))
	for i, result := range results {
		fragments = append(fragments, Fragment{
			Content:     result.Content,
			Source:      result.Source,
			Institution: result.Institution,
			Rank:        i + 1,
			Score:       result.Score,
		})
	}
	common.Logger().Debug("retriever: query served",
		"institution", institution,
		"fragments", len(fragments))
	return fragments, nil
}

// Join renders fragments as a single context block for prompts, most
// relevant first.
func Join(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		parts = append(parts, fragment.Content)
	}
	return strings.Join(parts, "\n\n")
}
