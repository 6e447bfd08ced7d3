// File path: internal/docs/service.go
package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
	"github.com/davidemarchi/erasmus-advisor/internal/common"
)

// Service hands out document corpora. Destination catalogs are
// expensive to extract, so their pipe rendered text is cached under
// the processed directory and concurrent builds of the same corpus
// are collapsed through singleflight.
type Service struct {
	extractor    Extractor
	processedDir string
	group        singleflight.Group
}

func NewService(extractor Extractor, processedDir string) *Service {
	return &Service{extractor: extractor, processedDir: processedDir}
}

// Corpus returns the cached pipe rendered text for doc, building and
// persisting it on first use.
func (s *Service) Corpus(ctx context.Context, doc catalog.Document) (string, error) {
	path := s.processedPath(doc)
	value, err, _ := s.group.Do(path, func() (any, error) {
		cached, err := os.ReadFile(path)
		if err == nil {
			return string(cached), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("docs: read cached corpus: %w", err)
		}
		corpus, err := s.build(ctx, doc)
		if err != nil {
			return "", err
		}
		if err := s.writeCache(path, corpus); err != nil {
			// The corpus is still usable, only the cache write failed.
			common.Logger().Warn("docs: cache write failed", "path", path, "error", err)
		}
		return corpus, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Text extracts the document without consulting or filling the cache.
// Course catalogs change between calls to the model, so step three
// always reads them fresh.
func (s *Service) Text(ctx context.Context, doc catalog.Document) (string, error) {
	extraction, err := s.extractor.Extract(ctx, doc.Path)
	if err != nil {
		return "", err
	}
	return PipeText(extraction), nil
}

func (s *Service) build(ctx context.Context, doc catalog.Document) (string, error) {
	extraction, err := s.extractor.Extract(ctx, doc.Path)
	if err != nil {
		return "", err
	}
	corpus := PipeText(extraction)
	common.Logger().Info("docs: corpus built",
		"institution", doc.Institution,
		"category", doc.Category,
		"bytes", len(corpus))
	return corpus, nil
}

// writeCache persists atomically so a crash mid-write never leaves a
// truncated corpus behind.
func (s *Service) writeCache(path, corpus string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".corpus-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(corpus); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Service) processedPath(doc catalog.Document) string {
	return filepath.Join(s.processedDir, slug(doc.Institution)+"_"+string(doc.Category)+".txt")
}

func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
