package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding"
	"docchat/internal/fetcher"
	"docchat/internal/history"
	"docchat/internal/llm"
	"docchat/internal/service"
	"docchat/internal/summarizer"
	"docchat/internal/synthesizer"
	"docchat/internal/tui"
	"docchat/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var verbose bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging to stderr")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: docchat [--config=config.yaml] [--verbose] <url-or-file>")
		os.Exit(1)
	}
	source := flag.Arg(0)

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

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	// Assemble components
	ch, err := chunker.New(cfg.Chunker.MaxSize, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatalf("invalid chunker config: %v", err)
	}

	var embClient domain.EmbeddingClient
	switch cfg.Embedder.Type {
	case "openai", "":
		o := cfg.Embedder.OpenAI
		client, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
			BaseURL: o.BaseURL,
			APIKey:  os.Getenv(o.APIKeyEnv),
			Model:   o.Model,
			Timeout: time.Duration(o.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		embClient = client
	case "tfidf":
		embClient = embedding.NewTFIDF()
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	generator, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      os.Getenv(cfg.LLM.APIKeyEnv),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm init failed: %v", err)
	}

	pipeline := service.New(service.Options{
		Fetcher:      fetcher.New(time.Duration(cfg.Fetcher.TimeoutSecs)*time.Second, logger),
		Chunker:      ch,
		Gateway:      embedding.NewGateway(embClient, cfg.Embedder.BatchSize, logger),
		Index:        memory.NewIndex(),
		State:        history.New(cfg.History.MaxTurns),
		Synthesizer:  synthesizer.New(generator),
		Summarizer:   summarizer.NewFrequency(),
		Logger:       logger,
		TopK:         cfg.Retriever.TopK,
		RenderBudget: cfg.History.RenderBudget,
		MaxSentences: cfg.Summarizer.MaxSentences,
	})

	fmt.Printf("Loading %s ...\n", source)
	summary, err := pipeline.Initialize(context.Background(), source)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	m := tui.New(pipeline, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
