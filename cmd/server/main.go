package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	docs "bondregistry/docs"
	appbonds "bondregistry/internal/application/service/bonds"
	appusers "bondregistry/internal/application/service/users"
	"bondregistry/internal/config"
	"bondregistry/internal/domain/interfaces"
	infrabonds "bondregistry/internal/infrastructure/bonds"
	"bondregistry/internal/infrastructure/broker"
	infralei "bondregistry/internal/infrastructure/lei"
	"bondregistry/internal/infrastructure/migration"
	infrausers "bondregistry/internal/infrastructure/users"
	infrahttp "bondregistry/internal/interfaces/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()

	if cfg.Postgres.AutoMigrate {
		if err := migrate(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatalf("failed to migrate database: %v", err)
		}
	}

	bondsRepo, err := infrabonds.NewRepository(cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatalf("failed to init bonds repo: %v", err)
	}
	defer bondsRepo.Close()

	usersRepo, err := infrausers.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init users repo: %v", err)
	}
	defer usersRepo.Close()

	var apiKeys interfaces.APIKeyStore = usersRepo
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		apiKeys = infrausers.NewRedisAPIKeyStore(redisClient, infrausers.WithKeyPrefix(cfg.Redis.KeyPrefix))
		logger.Infof("api keys stored in redis at %s", cfg.Redis.Addr)
	}

	httpClient := &http.Client{}
	if cfg.LEI.Timeout > 0 {
		httpClient.Timeout = cfg.LEI.Timeout
	}
	resolver, err := infralei.NewClient(infralei.Config{
		URLTemplate: cfg.LEI.URLTemplate,
		HTTPClient:  httpClient,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatalf("failed to init lei client: %v", err)
	}

	bondOpts := []appbonds.Option{
		appbonds.WithLogger(logger),
		appbonds.WithUniqueLEI(cfg.Bonds.UniqueLEI),
		appbonds.WithOwnerScoping(cfg.Bonds.OwnerScoped),
	}
	if cfg.RabbitMQ.Enabled() {
		publisher, err := broker.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.BondsExchange, logger)
		if err != nil {
			logger.Fatalf("failed to init bond event publisher: %v", err)
		}
		defer publisher.Close()
		bondOpts = append(bondOpts, appbonds.WithEventPublisher(publisher))
		logger.Infof("publishing bond events to exchange %s", cfg.RabbitMQ.BondsExchange)
	}

	bondService, err := appbonds.NewService(bondsRepo, resolver, bondOpts...)
	if err != nil {
		logger.Fatalf("failed to init bond service: %v", err)
	}
	userService := appusers.NewService(usersRepo, apiKeys, logger)

	handler := infrahttp.NewHandler(bondService, userService, logger, infrahttp.WithHealthCheck(usersRepo.Ping))

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server stopped with error: %v", err)
		return
	}
	logger.Info("server stopped")
}

func migrate(dsn string, logger *logrus.Logger) error {
	m, err := migration.New(dsn, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
