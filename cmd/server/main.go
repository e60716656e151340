package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"order-analytics/internal/config"
	"order-analytics/internal/controllers/http"
	"order-analytics/internal/domain"
	"order-analytics/internal/generator"
	mmysql "order-analytics/internal/infra/mysql"
	"order-analytics/internal/infra/rabbitmq"
	infraredis "order-analytics/internal/infra/redis"
	"order-analytics/internal/observability"
	"order-analytics/internal/repository/memory"
	mysqlrepo "order-analytics/internal/repository/mysql"
	"order-analytics/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clock := domain.SystemClock{}

	seed := cfg.Dataset.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	orders := generator.New(generator.Config{
		Seed:            seed,
		OrdersPerRegion: cfg.Dataset.OrdersPerRegion,
		IDPrefix:        cfg.Dataset.IDPrefix,
	}, clock).Generate()
	logger.Info("dataset generated", zap.Int("orders", len(orders)), zap.Uint64("seed", seed))

	repo := memory.NewOrderRepository(orders, logger)

	var pub rabbitmq.PublisherInterface
	if cfg.RabbitMQ.Enabled() {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		pub = publisher
	}

	s := services.NewOrderService(repo, pub, clock, logger)

	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			DB:           cfg.Redis.DB,
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer func() { _ = redisClient.Close() }()
		s.SetMetricsCache(infraredis.NewMetricsCache(redisClient, cfg.Redis.CacheTTL))
		logger.Info("metrics cache enabled", zap.String("addr", cfg.Redis.Addr()), zap.Duration("ttl", cfg.Redis.CacheTTL))
	}

	if cfg.MySQL.Enabled() {
		db, err := mmysql.NewMySQL(cfg.MySQL, &mysqlrepo.StatusChangeRecord{})
		if err != nil {
			logger.Fatal("db: connect", zap.Error(err))
		}
		s.SetStatusJournal(mysqlrepo.NewStatusJournal(db, logger))
		logger.Info("status journal enabled", zap.String("host", cfg.MySQL.Host))
	}

	handler := http.NewHandler(s, clock)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestLogger(logger))

	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting order analytics service", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server run", zap.Error(err))
	}
}
