package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/stefan123292/schedule-reflow/adapter/cli"
	reflowcli "github.com/stefan123292/schedule-reflow/adapter/cli/reflow"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application/cache"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application/publish"
	"github.com/stefan123292/schedule-reflow/pkg/config"
	"github.com/stefan123292/schedule-reflow/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	logger = observability.NewLogger(logConfigFor(cfg))
	cli.SetLogger(logger)

	resultCache := newResultCache(ctx, cfg, logger)
	eventPublisher := newEventPublisher(cfg, logger)
	defer eventPublisher.Close()

	svc := application.NewService(resultCache, eventPublisher, logger)
	cli.SetService(svc)
	cli.SetHealth(newHealthRegistry(resultCache, eventPublisher))
	reflowcli.SetService(svc)
	cli.AddCommand(reflowcli.Cmd)

	cli.Execute()
}

// logConfigFor derives the process logger's settings from the loaded
// configuration: the level comes from LOG_LEVEL; output is plain text
// outside production, and JSON with source locations in production.
func logConfigFor(cfg *config.Config) observability.LogConfig {
	logCfg := observability.DefaultLogConfig()
	logCfg.ServiceName = "reflow"
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		logCfg.Format = observability.LogFormatJSON
		logCfg.AddSource = true
	}
	return logCfg
}

func newResultCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.ResultCache {
	client := redis.NewClient(&redis.Options{Addr: redisAddr(cfg.RedisURL)})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, reflow results will not be cached", "error", err)
		return cache.NoopCache{}
	}
	logger.Info("connected to redis result cache")
	return cache.NewRedisCache(client)
}

// pinger is implemented by a cache/publisher backed by a real connection
// (RedisCache, RabbitMQPublisher); the noop fallbacks don't implement it,
// so newHealthRegistry simply skips registering a checker for them.
type pinger interface {
	Ping(ctx context.Context) error
}

// newHealthRegistry registers a checker per collaborator that is actually
// backed by a live connection. GET /healthz reports only what it can
// meaningfully say something about.
func newHealthRegistry(resultCache cache.ResultCache, eventPublisher publish.EventPublisher) *observability.HealthRegistry {
	registry := observability.NewHealthRegistry()

	if p, ok := resultCache.(pinger); ok {
		registry.Register("redis", observability.RedisHealthChecker(p.Ping))
	}
	if p, ok := eventPublisher.(pinger); ok {
		registry.Register("rabbitmq", observability.RabbitMQHealthChecker(p.Ping))
	}

	return registry
}

func newEventPublisher(cfg *config.Config, logger *slog.Logger) publish.EventPublisher {
	settings := publish.BreakerSettings{
		MaxRequests:      cfg.BreakerMaxRequests,
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: cfg.BreakerFailThreshold,
	}

	publisher, err := publish.NewRabbitMQPublisher(cfg.RabbitMQURL, settings, logger)
	if err != nil {
		logger.Warn("rabbitmq not available, reflow completion events will not be published", "error", err)
		return publish.NewNoopPublisher(logger)
	}
	return publisher
}

// redisAddr strips a redis:// scheme, since go-redis's Options.Addr wants
// a bare host:port rather than a URL.
func redisAddr(url string) string {
	const schemePrefix = "redis://"
	addr := url
	if len(addr) > len(schemePrefix) && addr[:len(schemePrefix)] == schemePrefix {
		addr = addr[len(schemePrefix):]
	}
	for i := 0; i < len(addr); i++ {
		if addr[i] == '/' {
			return addr[:i]
		}
	}
	return addr
}
