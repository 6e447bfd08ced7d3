// File path: internal/docs/docs_test.go
package docs

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
)

type countingExtractor struct {
	calls      atomic.Int64
	extraction Extraction
}

func (e *countingExtractor) Extract(ctx context.Context, path string) (Extraction, error) {
	e.calls.Add(1)
	return e.extraction, nil
}

func TestPipeTextJoinsRows(t *testing.T) {
	ex := Extraction{Rows: [][]string{
		{"Informatica", "KU Leuven", "2"},
		{"Multi\nline cell", "Uppsala", "1"},
	}}
	got := PipeText(ex)
	want := "Informatica | KU Leuven | 2\nMulti line cell | Uppsala | 1"
	if got != want {
		t.Fatalf("unexpected corpus:\n%s", got)
	}
}

func TestPipeTextFallsBackToText(t *testing.T) {
	ex := Extraction{Text: "plain text body"}
	if got := PipeText(ex); got != "plain text body" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestCorpusCachesOnDisk(t *testing.T) {
	dir := t.TempDir()
	extractor := &countingExtractor{extraction: Extraction{Rows: [][]string{{"a", "b"}}}}
	service := NewService(extractor, dir)
	doc := catalog.Document{
		Institution: "KU Leuven",
		Category:    catalog.CategoryDestinationCatalog,
		Path:        "ignored.pdf",
	}

	first, err := service.Corpus(context.Background(), doc)
	if err != nil {
		t.Fatalf("first corpus: %v", err)
	}
	second, err := service.Corpus(context.Background(), doc)
	if err != nil {
		t.Fatalf("second corpus: %v", err)
	}
	if first != second {
		t.Fatal("cached corpus differs from built corpus")
	}
	if calls := extractor.calls.Load(); calls != 1 {
		t.Fatalf("expected 1 extraction, got %d", calls)
	}
	cached, err := os.ReadFile(filepath.Join(dir, "ku-leuven_destination_catalog.txt"))
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if string(cached) != first {
		t.Fatal("cache file content differs from returned corpus")
	}
}

func TestTextBypassesCache(t *testing.T) {
	dir := t.TempDir()
	extractor := &countingExtractor{extraction: Extraction{Text: "exam list"}}
	service := NewService(extractor, dir)
	doc := catalog.Document{Institution: "Uppsala", Category: catalog.CategoryCourseCatalog, Path: "ignored.pdf"}

	for i := 0; i < 2; i++ {
		text, err := service.Text(context.Background(), doc)
		if err != nil {
			t.Fatalf("text: %v", err)
		}
		if text != "exam list" {
			t.Fatalf("unexpected text %q", text)
		}
	}
	if calls := extractor.calls.Load(); calls != 2 {
		t.Fatalf("expected 2 extractions, got %d", calls)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Text must not populate the cache, found %d entries", len(entries))
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"KU Leuven":                    "ku-leuven",
		"  Uppsala  ":                  "uppsala",
		"Ecole Polytechnique Federale": "ecole-polytechnique-federale",
	}
	for input, want := range cases {
		if got := slug(input); got != want {
			t.Fatalf("slug(%q) = %q, want %q", input, got, want)
		}
	}
}
