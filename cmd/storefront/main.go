package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/go_storefront/internal/account"
	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/events"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/orders"
)

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Error("storefront stopped with error", zap.Error(err))
		lg.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, lg *logger.Logger) error {
	ctx := context.Background()
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				lg.Warn("close failed", zap.Error(err))
			}
		}
	}()

	productRepo, err := newCatalogRepository(cfg, lg)
	if err != nil {
		return err
	}
	closers = append(closers, productRepo.Close)
	products := catalog.New(productRepo)

	cartRepo, err := newCartRepository(ctx, cfg, lg, &closers)
	if err != nil {
		return err
	}

	cartCache, err := newCartCache(ctx, cfg, lg, &closers)
	if err != nil {
		return err
	}

	orderRepo, err := newOrderRepository(cfg, lg)
	if err != nil {
		return err
	}
	closers = append(closers, orderRepo.Close)

	publisher := newPublisher(cfg, lg)
	closers = append(closers, publisher.Close)

	consumeCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()
	if len(cfg.Kafka.Brokers) > 0 {
		fulfillment := orders.NewFulfillment(orderRepo, lg.With(zap.String("component", "fulfillment")), cfg.Kafka.Brokers...)
		closers = append(closers, fulfillment.Close)
		go fulfillment.Run(consumeCtx)
	}

	carts := cart.NewService(cartRepo, cartCache, products, lg.With(zap.String("component", "cart")))
	orderSvc := orders.NewService(orderRepo, publisher, lg.With(zap.String("component", "orders")))
	checkoutSvc := checkout.NewService(carts, orderSvc, lg.With(zap.String("component", "checkout")))
	accounts := account.New(account.DemoUser)

	timeout := cfg.HTTP.RequestTimeout
	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(products, lg, timeout),
		Carts:    h.NewCartHandler(carts, lg, timeout),
		Checkout: h.NewCheckoutHandler(checkoutSvc, lg, timeout),
		Orders:   h.NewOrdersHandler(orderSvc, accounts, lg, timeout),
	}, timeout)

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		lg.Info("storefront starting", zap.String("addr", cfg.App.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	lg.Info("shutting down server")
	stopConsumers()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	lg.Info("server exited")
	return nil
}

func newCatalogRepository(cfg config.Config, lg *logger.Logger) (catalog.Repository, error) {
	if cfg.Catalog.Backend != "sqlite" {
		lg.Info("catalog backed by seed data")
		return catalog.NewMemoryRepository(catalog.SeedProducts()), nil
	}

	repo, err := catalog.NewSQLiteRepository(cfg.Catalog.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	if err := repo.RunMigrations(cfg.Catalog.MigrationsPath); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate catalog db: %w", err)
	}
	lg.Info("catalog backed by sqlite", zap.String("path", cfg.Catalog.SQLitePath))
	return repo, nil
}

func newCartRepository(ctx context.Context, cfg config.Config, lg *logger.Logger, closers *[]func() error) (cart.Repository, error) {
	if cfg.Cart.Backend != "mongo" {
		lg.Info("carts kept in memory")
		return cart.NewMemoryRepository(), nil
	}

	db, err := cart.ConnectMongoDB(ctx, cfg.Cart.MongoURI, cfg.Cart.MongoDB, cart.MongoOptions{
		AppName:     cfg.App.Name,
		MaxPoolSize: cfg.Cart.MongoPoolSize,
	})
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.Client().Disconnect(ctx)
	})

	repo := cart.NewMongoRepository(db)
	if err := repo.CreateIndexes(ctx); err != nil {
		return nil, err
	}
	lg.Info("carts backed by mongo", zap.String("db", cfg.Cart.MongoDB))
	return repo, nil
}

func newCartCache(ctx context.Context, cfg config.Config, lg *logger.Logger, closers *[]func() error) (cache.CartCache, error) {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}, nil
	}

	redisClient, err := cache.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, redisClient.Close)
	lg.Info("cart cache backed by redis", zap.String("addr", cfg.Redis.Addr), zap.String("prefix", cfg.Redis.KeyPrefix))
	return cache.NewRedisCache(redisClient, cache.RedisOptions{
		Prefix: cfg.Redis.KeyPrefix,
		TTL:    cfg.Redis.TTL,
		Jitter: cfg.Redis.Jitter,
	}), nil
}

func newOrderRepository(cfg config.Config, lg *logger.Logger) (orders.Repository, error) {
	if cfg.Orders.Backend != "postgres" {
		lg.Info("orders kept in memory")
		return orders.NewMemoryRepository(orders.SeedOrders()...), nil
	}

	cred := &orders.Credentials{
		Host:              cfg.Orders.Host,
		Port:              cfg.Orders.Port,
		User:              cfg.Orders.User,
		Password:          cfg.Orders.Password,
		DBName:            cfg.Orders.DBName,
		MigrationsDirPath: cfg.Orders.MigrationsPath,
	}
	repo, err := orders.NewPostgresRepository(cred)
	if err != nil {
		return nil, fmt.Errorf("open orders db: %w", err)
	}
	if err := repo.RunMigrations(cred); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate orders db: %w", err)
	}
	lg.Info("orders backed by postgres", zap.String("host", cfg.Orders.Host))
	return repo, nil
}

func newPublisher(cfg config.Config, lg *logger.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		lg.Info("kafka not configured, order events dropped")
		return events.Noop{}
	}
	lg.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers))
	return events.NewBreakerPublisher(events.NewKafkaPublisher(cfg.Kafka.Brokers...), lg)
}
