// cmd/bridge/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mediarelay/internal/api"
	"mediarelay/internal/audit"
	"mediarelay/internal/chat"
	"mediarelay/internal/commands"
	"mediarelay/internal/common/config"
	"mediarelay/internal/common/database"
	"mediarelay/internal/common/logger"
	"mediarelay/internal/common/observability"
	"mediarelay/internal/dispatch"
	"mediarelay/internal/fanout"
	"mediarelay/internal/handlers"
	"mediarelay/internal/handlers/overseerr"
	"mediarelay/internal/handlers/radarr"
	"mediarelay/internal/handlers/sonarr"
	"mediarelay/internal/handlers/tdarr"
	"mediarelay/internal/mediaapi"
	"mediarelay/internal/models"
	"mediarelay/internal/store"
	"mediarelay/internal/translate"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting webhook bridge...",
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (audit trail only) ---
	var esClient *database.ElasticsearchClient
	if cfg.Audit.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Chat platform client and channel resolution ---
	chatClient := chat.NewRestClient(cfg.Chat, log)
	resolver := chat.NewResolver(chatClient, log)

	// --- Subscription store and admin commands ---
	subscriptions := store.New(redis, log)
	manageSource := commands.NewManageSource(subscriptions, resolver, log)

	primeChannels(ctx, resolver, subscriptions, cfg, log)

	// --- Audit recorder ---
	var auditor fanout.Auditor
	if cfg.Audit.Enabled || cfg.Webhooks.DebugChannelID != "" {
		auditor = audit.New(esClient, chatClient, cfg.Webhooks.DebugChannelID, cfg.Audit.Index, log)
	}

	// --- Fan-out and dispatch pipeline ---
	translator := translate.New()
	deliverer := fanout.New(chatClient, resolver, subscriptions, auditor,
		cfg.Webhooks.NotificationChannelID, log)

	router := dispatch.NewRouter(deliverer, obs, log)

	metadata := mediaapi.NewOverseerr(cfg.APIs.Overseerr, log)
	router.Register(overseerr.NewHandler(metadata, translator,
		debugFor(chatClient, cfg, models.SourceOverseerr, log), log))
	router.Register(radarr.NewHandler(translator,
		debugFor(chatClient, cfg, models.SourceRadarr, log), log))
	router.Register(sonarr.NewHandler(translator,
		debugFor(chatClient, cfg, models.SourceSonarr, log), log))
	router.Register(tdarr.NewHandler(tdarr.Config{Notifications: cfg.Webhooks.TdarrNotifications},
		translator, debugFor(chatClient, cfg, models.SourceTdarr, log), log))

	// --- HTTP server ---
	upstreams := make(map[string]api.UpstreamChecker)
	if cfg.APIs.Radarr.URL != "" {
		upstreams["radarr"] = mediaapi.NewRadarr(cfg.APIs.Radarr, log)
	}
	if cfg.APIs.Sonarr.URL != "" {
		upstreams["sonarr"] = mediaapi.NewSonarr(cfg.APIs.Sonarr, log)
	}

	server := api.NewServer(cfg.Server, router, manageSource, upstreams, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown did not complete cleanly", zap.Error(err))
	}
	zapLog.Info("webhook bridge stopped")
}

// primeChannels warms the resolver cache with every configured destination
// plus every subscribed channel, so the cache-only fan-out path works from
// the first webhook.
func primeChannels(ctx context.Context, resolver *chat.Resolver, subscriptions *store.Store, cfg *config.Config, log logger.Logger) {
	ids := []string{cfg.Webhooks.NotificationChannelID, cfg.Webhooks.DebugChannelID}
	for _, id := range cfg.Webhooks.AdminChannels {
		ids = append(ids, id)
	}

	for _, source := range models.Sources {
		subs, err := subscriptions.GetWebhookSource(ctx, source)
		if err != nil {
			log.Warn("subscription warm-up failed", map[string]interface{}{
				"source": source.String(),
				"error":  err.Error(),
			})
			continue
		}
		for _, sub := range subs {
			ids = append(ids, sub.ChannelID)
		}
	}

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := resolver.Resolve(ctx, id, chat.CacheThenFetch); err != nil {
			log.Warn("channel warm-up failed", map[string]interface{}{
				"channelId": id,
				"error":     err.Error(),
			})
		}
	}
}

func debugFor(client chat.Client, cfg *config.Config, source models.Source, log logger.Logger) *handlers.DebugNotifier {
	return handlers.NewDebugNotifier(client, cfg.Webhooks.AdminChannels[source.String()], log)
}
