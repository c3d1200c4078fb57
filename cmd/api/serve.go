package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wishlist/api/internal/app"
	"wishlist/api/internal/config"
	"wishlist/api/internal/extract"
	"wishlist/api/internal/llm"
	"wishlist/api/internal/session"
	"wishlist/api/internal/wishlist"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts.cfg, opts.logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tiers, err := loadTierPolicy(cfg)
	if err != nil {
		return err
	}

	completer, err := llm.NewCompleter(ctx, llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey(),
		BaseURL:  cfg.OpenAIURL,
		Model:    cfg.LLMModel(),
	}, llm.WithTimeout(cfg.LLMTimeout))
	if err != nil {
		return fmt.Errorf("llm backend: %w", err)
	}
	if cfg.LLMAPIKey() == "" {
		logger.Warn("LLM API key not configured; judgment and panel calls will fail over to fallbacks",
			zap.String("provider", cfg.LLMProvider))
	}
	judge := llm.NewJudge(completer, logger.Named("llm"))
	extractor := extract.NewPDFExtractor()

	var leases session.LeaseStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		logger.Info("using redis for session leases")
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisStore.Close()
		leases = redisStore
	} else {
		logger.Info("using in-memory session leases")
		leases = session.NewMemoryStore()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var seq atomic.Int64
	factory := func(id string) (*wishlist.Session, error) {
		// Each session gets its own stream derived from the process seed.
		return wishlist.Init(wishlist.Options{
			ID:         id,
			Tiers:      tiers,
			Assigner:   wishlist.NewSeededVerdictAssigner(seed+seq.Add(1), cfg.NaughtyRate),
			Saturation: cfg.Saturation,
			Judge:      judge,
			Extractor:  extractor,
			Logger:     logger.Named("session"),
		})
	}
	registry := session.NewRegistry(leases, factory, cfg.SessionTTL, logger.Named("registry"))
	service := app.NewService(registry, judge, extractor, logger)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, cfg.MaxUploadBytes, logger.Named("http"))
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("wishlist API listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
