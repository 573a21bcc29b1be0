package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tillpoint-pos/tillpoint/internal/app"
	"github.com/tillpoint-pos/tillpoint/internal/catalog"
	"github.com/tillpoint-pos/tillpoint/internal/checkout"
	"github.com/tillpoint-pos/tillpoint/internal/pos"
	"github.com/tillpoint-pos/tillpoint/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	inventoryClient := catalog.NewClient(cfg.InventoryAPIURL, cfg.InventoryAPITimeout)
	if err := inventoryClient.Ping(ctx); err != nil {
		logger.Warn("inventory api ping", slog.Any("error", err))
	}

	searchCache := catalog.NewCache(redisClient, cfg.SearchCacheTTL)
	if err := searchCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	catalogService := catalog.NewService(inventoryClient, searchCache, logger)

	submitter := checkout.NewSubmitter(cfg.TransactionURL, cfg.TransactionMethod, cfg.InventoryAPITimeout, logger)

	sessionStore := pos.NewStore(cfg.SessionTTL, logger)
	dispatcher := pos.NewDispatcher(catalogService, submitter, logger)
	posHandler := pos.NewHandler(logger, dispatcher, sessionStore, templates, pos.ScreenConfig{})

	router := app.NewRouter(app.RouterParams{
		Logger:     logger,
		Config:     cfg,
		POSHandler: posHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := sessionStore.Sweep(gctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}
