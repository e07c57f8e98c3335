package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/bilal790042/Document-QA-System/internal/chunker"
	"github.com/bilal790042/Document-QA-System/internal/composer"
	"github.com/bilal790042/Document-QA-System/internal/config"
	"github.com/bilal790042/Document-QA-System/internal/domain"
	"github.com/bilal790042/Document-QA-System/internal/embedding"
	"github.com/bilal790042/Document-QA-System/internal/llm"
	"github.com/bilal790042/Document-QA-System/internal/loader"
	"github.com/bilal790042/Document-QA-System/internal/retriever"
	"github.com/bilal790042/Document-QA-System/internal/service"
	"github.com/bilal790042/Document-QA-System/internal/tui"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/memory"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/qdrant"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docqa [--config=config.yaml] file1.txt [file2.pdf ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The TUI owns the terminal, so structured logs are dropped.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := assemble(cfg, logger)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	report, err := svc.IngestFiles(context.Background(), inputs)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	banner := fmt.Sprintf("%d files, %d chunks (%s)", len(report.Processed), report.ChunksAdded, svc.Describe())
	if len(report.Warnings) > 0 {
		banner += "  skipped: " + strings.Join(report.Warnings, "; ")
	}

	m := tui.New(svc, banner)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func assemble(cfg *config.AppConfig, logger *slog.Logger) (*service.QAServiceImpl, error) {
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

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.NewStorage()
	case "sqlite":
		if cfg.VectorStore.SQLite == nil {
			return nil, fmt.Errorf("sqlite config missing")
		}
		store, err = sqlite.NewStorage(cfg.VectorStore.SQLite.Path)
		if err != nil {
			return nil, err
		}
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		store = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
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
