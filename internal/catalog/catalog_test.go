// File path: internal/catalog/catalog_test.go
package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "calls", "call_ku_leuven.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "call_uppsala.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "metadata.json"), `{
		"call_ku_leuven.pdf": {
			"university": "KU Leuven",
			"short_name": "KUL",
			"academic_year": "2025/2026",
			"deadline": "2025-03-15",
			"languages_required": ["English B2", "Dutch A2"]
		},
		"call_uppsala.pdf": {
			"university": "Uppsala University",
			"academic_year": "2025/2026"
		}
	}`)
	writeFixture(t, filepath.Join(dir, "destinations", "dest_ku_leuven.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "destinations", "metadata.json"), `{
		"dest_ku_leuven.pdf": {"university": "KU Leuven"}
	}`)
	writeFixture(t, filepath.Join(dir, "exams", "exams_ku_leuven.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "exams", "metadata.json"), `{
		"exams_ku_leuven.pdf": {"university": "KU Leuven"}
	}`)

	store, err := Open(Config{DataDir: dir, DBPath: filepath.Join(dir, "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	return store, dir
}

func TestResolveAnnouncementByShortName(t *testing.T) {
	store, _ := newTestStore(t)
	doc, err := store.ResolveAnnouncement(context.Background(), "kul")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if doc.Institution != "KU Leuven" {
		t.Fatalf("unexpected institution %q", doc.Institution)
	}
	if doc.Deadline != "2025-03-15" {
		t.Fatalf("unexpected deadline %q", doc.Deadline)
	}
	if len(doc.Languages) != 2 || doc.Languages[0] != "English B2" {
		t.Fatalf("unexpected languages %v", doc.Languages)
	}
}

func TestResolveAnnouncementFuzzyName(t *testing.T) {
	store, _ := newTestStore(t)
	doc, err := store.ResolveAnnouncement(context.Background(), "ku leuven university of something")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if doc.Filename != "call_ku_leuven.pdf" {
		t.Fatalf("unexpected document %q", doc.Filename)
	}
}

func TestResolveUnknownInstitution(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.ResolveAnnouncement(context.Background(), "Hogwarts")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestResolveLatestAcademicYearWins(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "calls", "call_leuven_2024.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "call_leuven_2025.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "metadata.json"), `{
		"call_leuven_2024.pdf": {"university": "KU Leuven", "academic_year": "2024/2025"},
		"call_leuven_2025.pdf": {"university": "KU Leuven", "academic_year": "2025/2026"}
	}`)
	store, err := Open(Config{DataDir: dir, DBPath: filepath.Join(dir, "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	doc, err := store.ResolveAnnouncement(context.Background(), "KU Leuven")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if doc.Filename != "call_leuven_2025.pdf" {
		t.Fatalf("expected latest year, got %q", doc.Filename)
	}
}

func TestResolveAmbiguousInstitution(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "calls", "call_leuven_a.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "call_leuven_b.pdf"), "pdf bytes")
	writeFixture(t, filepath.Join(dir, "calls", "metadata.json"), `{
		"call_leuven_a.pdf": {"university": "KU Leuven"},
		"call_leuven_b.pdf": {"university": "KU Leuven"}
	}`)
	store, err := Open(Config{DataDir: dir, DBPath: filepath.Join(dir, "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	_, err = store.ResolveAnnouncement(context.Background(), "KU Leuven")
	if !errors.Is(err, ErrAmbiguousInstitution) {
		t.Fatalf("expected ErrAmbiguousInstitution, got %v", err)
	}
}

func TestInstitutions(t *testing.T) {
	store, _ := newTestStore(t)
	names, err := store.Institutions(context.Background())
	if err != nil {
		t.Fatalf("institutions: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 institutions, got %v", names)
	}
	if names[0] != "KU Leuven" || names[1] != "Uppsala University" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestFilenameFallbackWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "calls", "call_tu_delft.pdf"), "pdf bytes")
	store, err := Open(Config{DataDir: dir, DBPath: filepath.Join(dir, "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	doc, err := store.ResolveAnnouncement(context.Background(), "tu delft")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if doc.Institution != "tu delft" {
		t.Fatalf("unexpected institution %q", doc.Institution)
	}
}

func TestRescanDropsDeletedFiles(t *testing.T) {
	store, dir := newTestStore(t)
	if err := os.Remove(filepath.Join(dir, "calls", "call_uppsala.pdf")); err != nil {
		t.Fatalf("remove fixture: %v", err)
	}
	if err := store.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	_, err := store.ResolveAnnouncement(context.Background(), "Uppsala")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound after rescan, got %v", err)
	}
}
