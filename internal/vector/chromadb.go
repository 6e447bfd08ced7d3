// File path: internal/vector/chromadb.go
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
)

// Chunk is one indexed slice of an announcement document together with
// the metadata the retriever filters on.
type Chunk struct {
	ID          string
	Content     string
	Source      string
	Category    string
	Institution string
	Index       int
	Embedding   []float32
}

// Result is a chunk returned from a similarity query with its distance
// converted to a score in [0, 1].
type Result struct {
	Chunk
	Score float64
}

// Store is the similarity index used by the retriever and the indexer.
type Store interface {
	Available(ctx context.Context) bool
	EnsureCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, vector []float32, limit int, filter map[string]string) ([]Result, error)
}

var (
	errNotFound = errors.New("chromadb: resource not found")
	errConflict = errors.New("chromadb: resource already exists")
)

type client struct {
	cfg          Config
	http         *http.Client
	baseURL      string
	collectionID string
}

// NewStore builds a ChromaDB-backed Store from cfg. The collection is
// resolved lazily on first use.
func NewStore(cfg Config) Store {
	cfg.applyDefaults()
	return &client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: fmt.Sprintf("%s://%s:%s/api/v1", cfg.Scheme, cfg.Host, cfg.Port),
	}
}

func (c *client) Available(ctx context.Context) bool {
	var payload map[string]any
	if err := c.doRequest(ctx, http.MethodGet, "/heartbeat", nil, &payload); err != nil {
		common.Logger().Warn("chromadb: heartbeat failed", "error", err)
		return false
	}
	return true
}

type collectionPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *client) EnsureCollection(ctx context.Context) error {
	if c.collectionID != "" {
		return nil
	}
	body := map[string]any{
		"name":          c.cfg.Collection,
		"get_or_create": true,
	}
	var created collectionPayload
	err := c.doRequest(ctx, http.MethodPost, "/collections", body, &created)
	if err == nil {
		c.collectionID = created.ID
		return nil
	}
	if !errors.Is(err, errConflict) {
		return fmt.Errorf("chromadb: create collection %q: %w", c.cfg.Collection, err)
	}
	var existing collectionPayload
	path := "/collections/" + url.PathEscape(c.cfg.Collection)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &existing); err != nil {
		return fmt.Errorf("chromadb: lookup collection %q: %w", c.cfg.Collection, err)
	}
	c.collectionID = existing.ID
	return nil
}

func (c *client) UpsertChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := c.EnsureCollection(ctx); err != nil {
		return err
	}
	ids := make([]string, 0, len(chunks))
	documents := make([]string, 0, len(chunks))
	metadatas := make([]map[string]any, 0, len(chunks))
	embeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		ids = append(ids, chunk.ID)
		documents = append(documents, chunk.Content)
		metadatas = append(metadatas, map[string]any{
			"source":      chunk.Source,
			"category":    chunk.Category,
			"institution": chunk.Institution,
			"chunk_index": chunk.Index,
		})
		embeddings = append(embeddings, chunk.Embedding)
	}
	body := map[string]any{
		"ids":        ids,
		"documents":  documents,
		"metadatas":  metadatas,
		"embeddings": embeddings,
	}
	path := "/collections/" + url.PathEscape(c.collectionID) + "/upsert"
	if err := c.doRequest(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("chromadb: upsert %d chunks: %w", len(chunks), err)
	}
	return nil
}

type queryPayload struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

func (c *client) Search(ctx context.Context, vector []float32, limit int, filter map[string]string) ([]Result, error) {
	if err := c.EnsureCollection(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        limit,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if len(filter) > 0 {
		where := make(map[string]any, len(filter))
		for key, value := range filter {
			where[key] = value
		}
		body["where"] = where
	}
	var payload queryPayload
	path := "/collections/" + url.PathEscape(c.collectionID) + "/query"
	if err := c.doRequest(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, fmt.Errorf("chromadb: query: %w", err)
	}
	if len(payload.IDs) == 0 {
		return nil, nil
	}
	results := make([]Result, 0, len(payload.IDs[0]))
	for i, id := range payload.IDs[0] {
		result := Result{Chunk: Chunk{ID: id}}
		if len(payload.Documents) > 0 && i < len(payload.Documents[0]) {
			result.Content = payload.Documents[0][i]
		}
		if len(payload.Metadatas) > 0 && i < len(payload.Metadatas[0]) {
			meta := payload.Metadatas[0][i]
			result.Source = metaString(meta, "source")
			result.Category = metaString(meta, "category")
			result.Institution = metaString(meta, "institution")
			result.Index = metaInt(meta, "chunk_index")
		}
		if len(payload.Distances) > 0 && i < len(payload.Distances[0]) {
			result.Score = scoreFromDistance(payload.Distances[0][i])
		}
		results = append(results, result)
	}
	return results, nil
}

// scoreFromDistance maps a cosine distance onto a similarity score so
// callers never see raw distances.
func scoreFromDistance(distance float64) float64 {
	score := 1 - distance
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func metaString(meta map[string]any, key string) string {
	if value, ok := meta[key].(string); ok {
		return value
	}
	return ""
}

func metaInt(meta map[string]any, key string) int {
	switch value := meta[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	case string:
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return 0
}

func (c *client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusConflict:
		return errConflict
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncateBody(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncateBody(data []byte) string {
	const limit = 300
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
