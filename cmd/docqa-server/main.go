package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bilal790042/Document-QA-System/internal/chunker"
	"github.com/bilal790042/Document-QA-System/internal/composer"
	"github.com/bilal790042/Document-QA-System/internal/config"
	"github.com/bilal790042/Document-QA-System/internal/domain"
	"github.com/bilal790042/Document-QA-System/internal/embedding"
	"github.com/bilal790042/Document-QA-System/internal/llm"
	"github.com/bilal790042/Document-QA-System/internal/loader"
	"github.com/bilal790042/Document-QA-System/internal/retriever"
	"github.com/bilal790042/Document-QA-System/internal/server"
	"github.com/bilal790042/Document-QA-System/internal/service"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/memory"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/qdrant"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, cfgPath, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "path", cfgPath)

	// A failed assembly (missing API key, unreachable store) leaves the
	// API up but answering 503 until the process is restarted with a
	// working environment. Health stays reachable either way.
	svc, err := buildService(cfg, logger)
	if err != nil {
		logger.Error("service initialization failed, serving degraded", "error", err)
		svc = nil
	}

	srv := server.New(svc, cfg.Server.CORSOrigins, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func buildService(cfg *config.AppConfig, logger *slog.Logger) (domain.QAService, error) {
	emb, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("embedder init: %w", err)
	}

	chat, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Model:       cfg.LLM.Model,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm init: %w", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("vector store init: %w", err)
	}

	prompt, err := llm.LoadPrompt(cfg.Prompts.SystemPath, cfg.Prompts.QuestionPath)
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	ch := chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap(), cfg.Chunker.Separators)
	ret, err := retriever.New(emb, store, cfg.Retriever.TopK)
	if err != nil {
		return nil, err
	}
	comp := composer.New(chat, prompt)
	return service.NewQAService(ch, emb, store, ret, comp, loader.New(), cfg.Embedder.BatchSize, logger), nil
}

func buildStore(cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "sqlite":
		if cfg.VectorStore.SQLite == nil {
			return nil, fmt.Errorf("sqlite config missing")
		}
		return sqlite.NewStorage(cfg.VectorStore.SQLite.Path)
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
