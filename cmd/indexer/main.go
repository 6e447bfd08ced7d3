// File path: cmd/indexer/main.go
// Command indexer embeds every registered program announcement and
// loads the chunks into the similarity index. Run it after adding or
// replacing documents under the data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/docs"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/vector"
)

const embedBatchSize = 16

func main() {
	_ = godotenv.Load()
	logger := common.Logger()

	var (
		dataDir    = flag.String("data", "", "data directory (overrides CATALOG_DATA_DIR)")
		chunkLines = flag.Int("chunk-lines", 40, "lines per chunk")
		overlap    = flag.Int("overlap", 10, "overlapping lines between chunks")
		extractBin = flag.String("extractor", "", "text extraction binary (default pdftotext)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *dataDir, *chunkLines, *overlap, *extractBin); err != nil {
		logger.Error("indexer: failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataDir string, chunkLines, overlap int, extractBin string) error {
	catalogCfg := catalog.LoadConfig()
	if dataDir != "" {
		catalogCfg = catalogCfg.Merge(catalog.Config{
			DataDir: dataDir,
			DBPath:  filepath.Join(dataDir, "catalog.db"),
		})
	}
	store, err := catalog.Open(catalogCfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	if err := store.Rescan(ctx); err != nil {
		return fmt.Errorf("scan data directory: %w", err)
	}

	vectorCfg, err := vector.LoadConfig()
	if err != nil {
		return fmt.Errorf("vector config: %w", err)
	}
	vectorStore := vector.NewStore(vectorCfg)
	if !vectorStore.Available(ctx) {
		return fmt.Errorf("similarity index unreachable at %s:%s", vectorCfg.Host, vectorCfg.Port)
	}
	if err := vectorStore.EnsureCollection(ctx); err != nil {
		return err
	}

	provider := llm.NewProvider()
	common.Logger().Info("indexer: provider selected", "provider", provider.Name())

	docService := docs.NewService(docs.NewCommandExtractor(extractBin), filepath.Join(catalogCfg.DataDir, "processed"))

	institutions, err := store.Institutions(ctx)
	if err != nil {
		return err
	}
	for _, institution := range institutions {
		doc, err := store.ResolveAnnouncement(ctx, institution)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", institution, err)
		}
		if err := indexAnnouncement(ctx, provider, vectorStore, docService, doc, chunkLines, overlap); err != nil {
			return fmt.Errorf("index %s: %w", institution, err)
		}
	}
	common.Logger().Info("indexer: done", "institutions", len(institutions))
	return nil
}

func indexAnnouncement(ctx context.Context, provider llm.Provider, store vector.Store, docService *docs.Service, doc catalog.Document, chunkLines, overlap int) error {
	corpus, err := docService.Corpus(ctx, doc)
	if err != nil {
		return err
	}
	texts := docs.ChunkLines(corpus, chunkLines, overlap)
	if len(texts) == 0 {
		common.Logger().Warn("indexer: empty corpus", "institution", doc.Institution)
		return nil
	}
	chunks := make([]vector.Chunk, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := provider.Embed(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts", start, end, len(vectors), end-start)
		}
		for i := start; i < end; i++ {
			chunks = append(chunks, vector.Chunk{
				ID:          fmt.Sprintf("%s-%d", doc.Filename, i),
				Content:     texts[i],
				Source:      doc.Filename,
				Category:    string(doc.Category),
				Institution: doc.Institution,
				Index:       i,
				Embedding:   vectors[i-start],
			})
		}
	}
	if err := store.UpsertChunks(ctx, chunks); err != nil {
		return err
	}
	common.Logger().Info("indexer: announcement indexed",
		"institution", doc.Institution,
		"chunks", len(chunks))
	return nil
}
