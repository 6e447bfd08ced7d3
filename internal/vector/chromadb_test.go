// File path: internal/vector/chromadb_test.go
package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type fakeChroma struct {
	upserts  int
	queries  int
	lastBody map[string]any
}

func newFakeServer(t *testing.T, fake *fakeChroma) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"nanosecond heartbeat": 1})
	})
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "col-1", "name": "erasmus_calls"})
	})
	mux.HandleFunc("/api/v1/collections/col-1/upsert", func(w http.ResponseWriter, r *http.Request) {
		fake.upserts++
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		fake.lastBody = body
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/collections/col-1/query", func(w http.ResponseWriter, r *http.Request) {
		fake.queries++
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		fake.lastBody = body
		json.NewEncoder(w).Encode(queryPayload{
			IDs:       [][]string{{"chunk-0", "chunk-1"}},
			Documents: [][]string{{"first chunk", "second chunk"}},
			Metadatas: [][]map[string]any{{
				{"source": "call.pdf", "category": "program_announcement", "institution": "KU Leuven", "chunk_index": float64(0)},
				{"source": "call.pdf", "category": "program_announcement", "institution": "KU Leuven", "chunk_index": float64(1)},
			}},
			Distances: [][]float64{{0.1, 0.4}},
		})
	})
	return httptest.NewServer(mux)
}

func storeForServer(t *testing.T, server *httptest.Server) Store {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	host, port, found := strings.Cut(parsed.Host, ":")
	if !found {
		t.Fatalf("unexpected host %q", parsed.Host)
	}
	return NewStore(Config{Host: host, Port: port, Scheme: "http", Collection: "erasmus_calls"})
}

func TestStoreSearch(t *testing.T) {
	fake := &fakeChroma{}
	server := newFakeServer(t, fake)
	defer server.Close()

	store := storeForServer(t, server)
	if !store.Available(context.Background()) {
		t.Fatal("expected store to report available")
	}
	results, err := store.Search(context.Background(), []float32{0.1, 0.2}, 5, map[string]string{"institution": "KU Leuven"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Content != "first chunk" {
		t.Fatalf("unexpected content %q", results[0].Content)
	}
	if results[0].Institution != "KU Leuven" {
		t.Fatalf("unexpected institution %q", results[0].Institution)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("expected lower distance to score higher: %v vs %v", results[0].Score, results[1].Score)
	}
	where, ok := fake.lastBody["where"].(map[string]any)
	if !ok {
		t.Fatal("expected where filter in query body")
	}
	if where["institution"] != "KU Leuven" {
		t.Fatalf("unexpected filter %v", where)
	}
}

func TestStoreUpsertChunks(t *testing.T) {
	fake := &fakeChroma{}
	server := newFakeServer(t, fake)
	defer server.Close()

	store := storeForServer(t, server)
	chunks := []Chunk{
		{ID: "call.pdf-0", Content: "row one", Source: "call.pdf", Category: "program_announcement", Institution: "KU Leuven", Index: 0},
		{ID: "call.pdf-1", Content: "row two", Source: "call.pdf", Category: "program_announcement", Institution: "KU Leuven", Index: 1},
	}
	if err := store.UpsertChunks(context.Background(), chunks); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if fake.upserts != 1 {
		t.Fatalf("expected 1 upsert call, got %d", fake.upserts)
	}
	ids, ok := fake.lastBody["ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Fatalf("unexpected ids payload %v", fake.lastBody["ids"])
	}
	if err := store.UpsertChunks(context.Background(), nil); err != nil {
		t.Fatalf("empty upsert should be a no-op: %v", err)
	}
	if fake.upserts != 1 {
		t.Fatalf("empty upsert must not hit the server, got %d calls", fake.upserts)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store := NewStore(Config{Host: "127.0.0.1", Port: "1", Scheme: "http", TimeoutString: "200ms"})
	if store.Available(context.Background()) {
		t.Fatal("expected unavailable store")
	}
}
