package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xaenox/interview-bot/internal/bot"
	"github.com/xaenox/interview-bot/internal/classifier"
	"github.com/xaenox/interview-bot/internal/dialog"
	"github.com/xaenox/interview-bot/internal/evaluation"
	"github.com/xaenox/interview-bot/internal/journal"
	"github.com/xaenox/interview-bot/internal/llm"
	"github.com/xaenox/interview-bot/internal/questions"
	"github.com/xaenox/interview-bot/internal/storage"
	"github.com/xaenox/interview-bot/internal/webchat"
	"github.com/xaenox/interview-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize logger
	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	recorder, err := journal.New(cfg.Log.JournalDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize journal", zap.Error(err), zap.String("dir", cfg.Log.JournalDir))
	}

	// Initialize storage
	store, err := newStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	completer := llm.NewOpenAIClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		cfg.OpenAI.Timeout,
		logger,
	)

	clf := classifier.NewGPTClassifier(completer, logger)
	generator := questions.NewGenerator(completer, recorder, logger)
	flow := evaluation.NewFlow(clf, recorder, logger)

	orchestrator := dialog.NewOrchestrator(store, completer, generator, flow, clf, recorder, logger, dialog.Options{
		KnowledgeBase:      dialog.LoadKnowledgeBase(cfg.Dialog.KnowledgeBasePath, logger),
		MaxContextMessages: cfg.Dialog.MaxContextMessages,
		AdvanceThreshold:   cfg.Dialog.AdvanceThreshold,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Enabled {
		b, err := bot.New(cfg.Telegram.Token, orchestrator, logger)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			if err := b.Start(ctx); err != nil {
				logger.Error("Bot error", zap.Error(err))
			}
		}()
	}

	gin.SetMode(cfg.Server.Mode)
	router := webchat.NewRouter(orchestrator, webchat.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
	}, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newStore(cfg config.StorageConfig, logger *zap.Logger) (storage.SessionStore, error) {
	switch cfg.Driver {
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		return storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
	case "redis":
		logger.Info("Using Redis storage", zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedisStorage(storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, logger)
	default:
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	}
}
