// File path: cmd/advisor/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidemarchi/erasmus-advisor/internal/api"
	"github.com/davidemarchi/erasmus-advisor/internal/catalog"
	"github.com/davidemarchi/erasmus-advisor/internal/common"
	"github.com/davidemarchi/erasmus-advisor/internal/docs"
	"github.com/davidemarchi/erasmus-advisor/internal/llm"
	"github.com/davidemarchi/erasmus-advisor/internal/retriever"
	"github.com/davidemarchi/erasmus-advisor/internal/session"
	"github.com/davidemarchi/erasmus-advisor/internal/vector"
	"github.com/davidemarchi/erasmus-advisor/internal/workflow"
)

func main() {
	_ = godotenv.Load()
	logger := common.Logger()

	var (
		addr       = flag.String("addr", ":8080", "listen address")
		dataDir    = flag.String("data", "", "data directory (overrides CATALOG_DATA_DIR)")
		sessionTTL = flag.Duration("session-ttl", session.DefaultTTL, "session lifetime")
		topK       = flag.Int("topk", retriever.DefaultTopK, "retrieved fragments per query")
		genTimeout = flag.Duration("gen-timeout", llm.DefaultTimeout, "model generation timeout")
		extractBin = flag.String("extractor", "", "text extraction binary (default pdftotext)")
	)
	flag.Parse()

	catalogCfg := catalog.LoadConfig()
	if *dataDir != "" {
		catalogCfg = catalogCfg.Merge(catalog.Config{
			DataDir: *dataDir,
			DBPath:  filepath.Join(*dataDir, "catalog.db"),
		})
	}
	store, err := catalog.Open(catalogCfg)
	if err != nil {
		logger.Error("advisor: open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Rescan(ctx); err != nil {
		logger.Error("advisor: scan data directory", "error", err)
		os.Exit(1)
	}

	vectorCfg, err := vector.LoadConfig()
	if err != nil {
		logger.Error("advisor: vector config", "error", err)
		os.Exit(1)
	}
	vectorStore := vector.NewStore(vectorCfg)
	if !vectorStore.Available(ctx) {
		logger.Warn("advisor: similarity index unreachable at startup",
			"host", vectorCfg.Host, "port", vectorCfg.Port)
	}

	provider := llm.NewProvider()
	logger.Info("advisor: provider selected", "provider", provider.Name())

	extractor := docs.NewCommandExtractor(*extractBin)
	docService := docs.NewService(extractor, filepath.Join(catalogCfg.DataDir, "processed"))
	fragments := retriever.New(vectorStore, provider, *topK)
	sessions := session.NewMemoryStore(*sessionTTL)

	manager := workflow.NewManager(store, docService, fragments, sessions, provider, workflow.Config{
		GenerationTimeout: *genTimeout,
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           api.NewServer(manager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("advisor: listening", "addr", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("advisor: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("advisor: shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("advisor: server failed", "error", err)
			os.Exit(1)
		}
	}
}
