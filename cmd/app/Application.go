package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dokan-backend/internal/app"
	"dokan-backend/internal/cache"
	"dokan-backend/internal/config"
	"dokan-backend/internal/db"
	"dokan-backend/internal/db/conn"
	"dokan-backend/internal/db/repository"
	"dokan-backend/internal/handler"
	"dokan-backend/internal/kafka"
	"dokan-backend/internal/logger/sl"
	"dokan-backend/internal/notify"
	"dokan-backend/internal/ratelimit"
	"dokan-backend/internal/service"
)

// Application owns every long-lived component and tears them down in
// order on shutdown.
type Application struct {
	cfg      *config.Config
	log      *slog.Logger
	srv      *app.Server
	consumer *kafka.NotificationConsumer
	producer *kafka.NotificationProducer
	limiter  *ratelimit.Limiter
	cache    *cache.OrderCache
	otp      *service.OTPService
	db       *sql.DB
}

func NewApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Application, error) {
	dbConn, err := conn.Connection(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err = db.EnsureSchema(ctx, dbConn); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	userRepo := repository.NewUserRepository(dbConn)
	productRepo := repository.NewProductRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	otpRepo := repository.NewOTPRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)

	orderCache := cache.NewOrderCache(5*time.Minute, time.Minute)
	limiter := ratelimit.New(time.Minute)

	smsSender := notify.NewSMSSender(log)
	emailSender := notify.NewEmailSender(log)

	// Order notifications go through the outbox; with Kafka disabled
	// they are logged and dropped.
	var outbox notify.Enqueuer
	var producer *kafka.NotificationProducer
	var consumer *kafka.NotificationConsumer
	if cfg.Kafka.Enabled {
		if err = kafka.EnsureTopicExists(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
			return nil, fmt.Errorf("ensuring kafka topic: %w", err)
		}
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, fmt.Errorf("creating kafka producer: %w", err)
		}
		dispatcher := notify.NewDispatcher(log, smsSender, emailSender)
		consumer, err = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, dispatcher.Process)
		if err != nil {
			return nil, fmt.Errorf("creating kafka consumer: %w", err)
		}
		outbox = producer
	} else {
		outbox = notify.NewLogEnqueuer(log)
	}

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	otpService := service.NewOTPService(otpRepo, smsSender, log)
	authService := service.NewAuthService(userRepo, otpService, tokens, log)
	catalogService := service.NewCatalogService(productRepo, log)
	orderService := service.NewOrderService(orderRepo, productRepo, orderCache, outbox, log)
	reviewService := service.NewReviewService(reviewRepo, productRepo, orderRepo, log)

	srv := app.NewServer(handler.Handlers{
		Auth:     handler.NewAuthHandler(authService, otpService, cfg.Env != "prod"),
		Orders:   handler.NewOrderHandler(orderService),
		Products: handler.NewProductHandler(catalogService),
		Reviews:  handler.NewReviewHandler(reviewService),
		Tokens:   tokens,
		Limiter:  limiter,
	})

	return &Application{
		cfg:      cfg,
		log:      log,
		srv:      srv,
		consumer: consumer,
		producer: producer,
		limiter:  limiter,
		cache:    orderCache,
		otp:      otpService,
		db:       dbConn,
	}, nil
}

// Run starts the janitors, the consumer and the HTTP server, then
// blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	go func() { _ = a.cache.GC(ctx) }()
	go func() { _ = a.limiter.GC(ctx) }()
	go func() { _ = a.otp.PurgeLoop(ctx, 10*time.Minute) }()

	if a.consumer != nil {
		go func() {
			a.log.Info("starting notification consumer")
			if err := a.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Error("notification consumer stopped", sl.Err(err))
			}
		}()
	}

	go func() {
		a.log.Info("http server listening", slog.String("port", a.cfg.HTTP.Port))
		if err := a.srv.Run(":" + a.cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server failed", sl.Err(err))
		}
	}()

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Shutdown(shutdownCtx)

	return nil
}

// Shutdown stops the server first so in-flight requests drain, then the
// broker clients, then the janitors and the database.
func (a *Application) Shutdown(ctx context.Context) {
	if err := a.srv.Stop(ctx); err != nil {
		a.log.Error("stopping http server", sl.Err(err))
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.log.Error("closing kafka consumer", sl.Err(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Error("closing kafka producer", sl.Err(err))
		}
	}
	a.cache.Stop()
	a.limiter.Stop()
	if err := a.db.Close(); err != nil {
		a.log.Error("closing database", sl.Err(err))
	}
}
