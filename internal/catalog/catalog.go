// File path: internal/catalog/catalog.go
// Package catalog keeps the registry of institutional documents found
// under the data directory. Each document belongs to one category and
// one partner institution; a metadata.json file next to the documents
// supplies canonical names, academic years and deadlines that cannot be
// derived from the filenames alone.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/davidemarchi/erasmus-advisor/internal/common"
)

// Category labels the role a document plays in the advisory workflow.
type Category string

const (
	CategoryAnnouncement       Category = "program_announcement"
	CategoryDestinationCatalog Category = "destination_catalog"
	CategoryCourseCatalog      Category = "course_catalog"
)

// categoryDirs maps each category to its subdirectory under the data
// root.
var categoryDirs = map[Category]string{
	CategoryAnnouncement:       "calls",
	CategoryDestinationCatalog: "destinations",
	CategoryCourseCatalog:      "exams",
}

// Document is one registered institutional file.
type Document struct {
	Filename     string
	Path         string
	Category     Category
	Institution  string
	ShortName    string
	AcademicYear string
	Deadline     string
	Languages    []string
}

var (
	// ErrDocumentNotFound reports that no registered document matches
	// the requested institution and category.
	ErrDocumentNotFound = errors.New("catalog: document not found")
	// ErrAmbiguousInstitution reports that several documents match an
	// institution with no academic year to break the tie. This is a
	// data layout problem, not a caller mistake.
	ErrAmbiguousInstitution = errors.New("catalog: ambiguous institution")
)

// metadataEntry mirrors one record of a category's metadata.json file,
// keyed by filename.
type metadataEntry struct {
	University        string   `json:"university"`
	ShortName         string   `json:"short_name"`
	AcademicYear      string   `json:"academic_year"`
	Deadline          string   `json:"deadline"`
	LanguagesRequired []string `json:"languages_required"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	filename      TEXT NOT NULL,
	path          TEXT NOT NULL,
	category      TEXT NOT NULL,
	institution   TEXT NOT NULL,
	short_name    TEXT NOT NULL DEFAULT '',
	academic_year TEXT NOT NULL DEFAULT '',
	deadline      TEXT NOT NULL DEFAULT '',
	languages     TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (category, filename)
);
CREATE INDEX IF NOT EXISTS idx_documents_institution ON documents(category, institution);
`

// Store is the sqlite-backed document registry.
type Store struct {
	db      *sqlx.DB
	dataDir string
}

// Open connects to the registry database and ensures the schema
// exists. It does not scan the data directory; call Rescan for that.
func Open(cfg Config) (*Store, error) {
	cfg.applyDefaults()
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create db directory: %w", err)
	}
	db, err := sqlx.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &Store{db: db, dataDir: cfg.DataDir}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Rescan rebuilds the registry from the data directory. Existing rows
// are replaced wholesale so deletions on disk are reflected too.
func (s *Store) Rescan(ctx context.Context) error {
	documents := make([]Document, 0)
	for category, dir := range categoryDirs {
		found, err := s.scanCategory(category, filepath.Join(s.dataDir, dir))
		if err != nil {
			return err
		}
		documents = append(documents, found...)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin rescan: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("catalog: clear registry: %w", err)
	}
	const insert = `INSERT INTO documents
		(filename, path, category, institution, short_name, academic_year, deadline, languages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, doc := range documents {
		languages, err := json.Marshal(doc.Languages)
		if err != nil {
			return fmt.Errorf("catalog: encode languages for %s: %w", doc.Filename, err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			doc.Filename, doc.Path, doc.Category, doc.Institution,
			doc.ShortName, doc.AcademicYear, doc.Deadline, string(languages)); err != nil {
			return fmt.Errorf("catalog: insert %s: %w", doc.Filename, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit rescan: %w", err)
	}
	common.Logger().Info("catalog: registry rebuilt", "documents", len(documents))
	return nil
}

func (s *Store) scanCategory(category Category, dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", dir, err)
	}
	metadata, err := loadMetadata(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	documents := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".pdf" && ext != ".txt" {
			continue
		}
		doc := Document{
			Filename:    name,
			Path:        filepath.Join(dir, name),
			Category:    category,
			Institution: institutionFromFilename(name),
		}
		if meta, ok := metadata[name]; ok {
			if strings.TrimSpace(meta.University) != "" {
				doc.Institution = meta.University
			}
			doc.ShortName = meta.ShortName
			doc.AcademicYear = meta.AcademicYear
			doc.Deadline = meta.Deadline
			doc.Languages = meta.LanguagesRequired
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func loadMetadata(path string) (map[string]metadataEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read metadata: %w", err)
	}
	var metadata map[string]metadataEntry
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return metadata, nil
}

// institutionFromFilename derives a readable institution name when no
// metadata entry covers the file.
func institutionFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.TrimPrefix(base, "call_")
	base = strings.TrimPrefix(base, "dest_")
	base = strings.TrimPrefix(base, "exams_")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

// ResolveAnnouncement finds the program announcement for the given
// institution, preferring the latest academic year when several match.
func (s *Store) ResolveAnnouncement(ctx context.Context, institution string) (Document, error) {
	return s.resolve(ctx, CategoryAnnouncement, institution)
}

// ResolveDestinationCatalog finds the destination catalog for the
// given institution.
func (s *Store) ResolveDestinationCatalog(ctx context.Context, institution string) (Document, error) {
	return s.resolve(ctx, CategoryDestinationCatalog, institution)
}

// ResolveCourseCatalog finds the course catalog for the given
// institution.
func (s *Store) ResolveCourseCatalog(ctx context.Context, institution string) (Document, error) {
	return s.resolve(ctx, CategoryCourseCatalog, institution)
}

func (s *Store) resolve(ctx context.Context, category Category, institution string) (Document, error) {
	query := strings.TrimSpace(institution)
	if query == "" {
		return Document{}, fmt.Errorf("%w: empty institution", ErrDocumentNotFound)
	}
	rows, err := s.rowsForCategory(ctx, category)
	if err != nil {
		return Document{}, err
	}
	matches := make([]Document, 0, 1)
	for _, row := range rows {
		if matchesInstitution(query, row.Institution, row.ShortName) {
			matches = append(matches, row)
		}
	}
	switch len(matches) {
	case 0:
		return Document{}, fmt.Errorf("%w: no %s for %q", ErrDocumentNotFound, category, institution)
	case 1:
		return matches[0], nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].AcademicYear > matches[j].AcademicYear
	})
	if matches[0].AcademicYear == matches[1].AcademicYear {
		names := make([]string, 0, len(matches))
		for _, match := range matches {
			names = append(names, match.Filename)
		}
		return Document{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguousInstitution, institution, strings.Join(names, ", "))
	}
	return matches[0], nil
}

// Institutions lists the canonical names of every institution that has
// a program announcement, sorted alphabetically.
func (s *Store) Institutions(ctx context.Context) ([]string, error) {
	var names []string
	const query = `SELECT DISTINCT institution FROM documents WHERE category = ? ORDER BY institution`
	if err := s.db.SelectContext(ctx, &names, query, CategoryAnnouncement); err != nil {
		return nil, fmt.Errorf("catalog: list institutions: %w", err)
	}
	return names, nil
}

type documentRow struct {
	Filename     string   `db:"filename"`
	Path         string   `db:"path"`
	Category     Category `db:"category"`
	Institution  string   `db:"institution"`
	ShortName    string   `db:"short_name"`
	AcademicYear string   `db:"academic_year"`
	Deadline     string   `db:"deadline"`
	Languages    string   `db:"languages"`
}

func (s *Store) rowsForCategory(ctx context.Context, category Category) ([]Document, error) {
	var rows []documentRow
	const query = `SELECT filename, path, category, institution, short_name, academic_year, deadline, languages
		FROM documents WHERE category = ?`
	if err := s.db.SelectContext(ctx, &rows, query, category); err != nil {
		return nil, fmt.Errorf("catalog: load %s documents: %w", category, err)
	}
	documents := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc := Document{
			Filename:     row.Filename,
			Path:         row.Path,
			Category:     row.Category,
			Institution:  row.Institution,
			ShortName:    row.ShortName,
			AcademicYear: row.AcademicYear,
			Deadline:     row.Deadline,
		}
		if row.Languages != "" {
			if err := json.Unmarshal([]byte(row.Languages), &doc.Languages); err != nil {
				common.Logger().Warn("catalog: invalid languages payload", "filename", row.Filename, "error", err)
			}
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

// matchesInstitution compares a user supplied name against the
// canonical name and short name, ignoring case, spacing and
// punctuation, and accepting substrings in either direction.
func matchesInstitution(query, institution, shortName string) bool {
	q := compact(query)
	if q == "" {
		return false
	}
	for _, candidate := range []string{institution, shortName} {
		c := compact(candidate)
		if c == "" {
			continue
		}
		if strings.Contains(c, q) || strings.Contains(q, c) {
			return true
		}
	}
	return false
}

func compact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
