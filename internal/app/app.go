package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Fras28/dynnamo-cart/internal/cart"
	"github.com/Fras28/dynnamo-cart/internal/catalog"
	"github.com/Fras28/dynnamo-cart/internal/checkout"
	"github.com/Fras28/dynnamo-cart/internal/config"
	"github.com/Fras28/dynnamo-cart/internal/event"
	handler "github.com/Fras28/dynnamo-cart/internal/handler/http"
	"github.com/Fras28/dynnamo-cart/internal/session"
	"github.com/Fras28/dynnamo-cart/internal/storage"
	"github.com/Fras28/dynnamo-cart/internal/storage/memory"
	redisstorage "github.com/Fras28/dynnamo-cart/internal/storage/redis"
	"github.com/Fras28/dynnamo-cart/pkg/health"
	"github.com/Fras28/dynnamo-cart/pkg/httpclient"
	pkgkafka "github.com/Fras28/dynnamo-cart/pkg/kafka"
	"github.com/Fras28/dynnamo-cart/pkg/tracing"
)

// App wires together all dependencies and runs the cart service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	consumer   *pkgkafka.Consumer
	httpServer *http.Server

	shutdownTracing func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "cart-service",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	// Cart storage backend.
	var rdb *redis.Client
	var slots storage.SlotFactory
	switch cfg.Storage {
	case config.StorageRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		slots = redisstorage.NewFactory(rdb, cfg.CartTTL)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	case config.StorageMemory:
		logger.Info("using in-memory cart storage")
		slots = memory.NewStore().Factory()
	}

	// Kafka producer and event publishing (optional).
	var producer *pkgkafka.Producer
	var events *event.Producer
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, "cart-service", logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// Per-session cart stores.
	var opts []cart.Option
	if cfg.StockLimit {
		opts = append(opts, cart.WithStockLimit())
	}
	manager := session.NewManager(slots, logger, opts...)

	// Logout consumer (optional policy).
	var consumer *pkgkafka.Consumer
	if cfg.ClearCartOnLogout {
		logoutHandler := event.NewLogoutHandler(manager, logger)
		consumer = pkgkafka.NewConsumer(
			pkgkafka.DefaultConsumerConfig(cfg.KafkaBrokers, cfg.KafkaGroupID, event.TopicUserLoggedOut),
			logoutHandler.Handle,
			logger,
		)
	}

	// Backend HTTP clients.
	catalogClient := catalog.NewClient(
		cfg.CatalogBaseURL,
		httpclient.NewBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultBreakerConfig("catalog"),
			logger,
		),
	)

	// Checkout must never retry: a replayed POST could double-submit orders.
	ordersHTTPCfg := httpclient.DefaultConfig()
	ordersHTTPCfg.MaxRetries = 0
	ordersClient := checkout.NewClient(cfg.OrdersBaseURL, httpclient.New(ordersHTTPCfg))
	checkoutSvc := checkout.NewService(ordersClient, eventsOrNil(events), logger)

	// HTTP surface.
	cartHandler := handler.NewCartHandler(manager, catalogClient, checkoutSvc, cartEventsOrNil(events), logger)
	router := handler.NewRouter(handler.RouterConfig{
		Cart:           cartHandler,
		Health:         healthHandler,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		consumer:        consumer,
		httpServer:      httpServer,
		shutdownTracing: shutdownTracing,
	}, nil
}

// eventsOrNil converts a possibly-nil *event.Producer into the checkout
// publisher interface without producing a typed-nil interface value.
func eventsOrNil(p *event.Producer) checkout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func cartEventsOrNil(p *event.Producer) handler.CartPublisher {
	if p == nil {
		return nil
	}
	return p
}

// Run starts the HTTP server (and the logout consumer when configured) and
// blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.consumer != nil {
		go func() {
			a.logger.Info("starting logout consumer",
				slog.String("topic", event.TopicUserLoggedOut),
			)
			if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
				errCh <- fmt.Errorf("logout consumer: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
