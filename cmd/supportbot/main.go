package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gross-labs/supportbot/internal/api"
	"github.com/gross-labs/supportbot/internal/chat"
	"github.com/gross-labs/supportbot/internal/config"
	"github.com/gross-labs/supportbot/internal/conversation"
	"github.com/gross-labs/supportbot/internal/events"
	"github.com/gross-labs/supportbot/internal/openai"
	"github.com/gross-labs/supportbot/internal/pgindex"
	"github.com/gross-labs/supportbot/internal/pinecone"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("supportbot starting", "port", cfg.Port, "search_backend", cfg.SearchBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenAI client
	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	llm := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbedModel)
	slog.Info("openai client ready", "model", cfg.OpenAIModel)

	// Search backend
	var searcher chat.Searcher
	switch cfg.SearchBackend {
	case "pinecone":
		if cfg.PineconeAPIKey == "" || cfg.PineconeIndexHost == "" {
			slog.Error("PINECONE_API_KEY and PINECONE_INDEX_HOST are required for the pinecone backend")
			os.Exit(1)
		}
		searcher = pinecone.NewClient(cfg.PineconeAPIKey, cfg.PineconeIndexHost, cfg.Namespace, cfg.TopK)
		slog.Info("pinecone search ready", "namespace", cfg.Namespace, "top_k", cfg.TopK)
	case "postgres":
		if cfg.DatabaseURL == "" {
			slog.Error("DATABASE_URL is required for the postgres backend")
			os.Exit(1)
		}
		ix, err := pgindex.New(ctx, cfg.DatabaseURL, llm, cfg.Namespace, cfg.TopK)
		if err != nil {
			slog.Error("failed to connect to chunk index", "error", err)
			os.Exit(1)
		}
		defer ix.Close()
		searcher = ix
		slog.Info("postgres search ready", "namespace", cfg.Namespace, "top_k", cfg.TopK)
	default:
		slog.Error("unknown search backend", "backend", cfg.SearchBackend)
		os.Exit(1)
	}

	// NATS events (optional — the bot works without an event bus)
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		publisher, err = events.Connect(cfg.NatsURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without turn events")
	}

	// Conversation store and turn pipeline
	store := conversation.NewStore()
	svc := chat.New(store, searcher, llm, publisher, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, svc, store, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if publisher != nil {
		if err := publisher.PublishRegistered(cfg.Port); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("supportbot ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("supportbot stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
