package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"tablebook/internal/auth"
	"tablebook/internal/config"
	"tablebook/internal/db"
	"tablebook/internal/logging"
	"tablebook/internal/menu"
	"tablebook/internal/messaging"
	"tablebook/internal/metrics"
	"tablebook/internal/order"
	"tablebook/internal/router"
	"tablebook/internal/session"
	"tablebook/internal/storage"
)

func main() {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logging.New(cfg.AppEnv, cfg.LogLevel)
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── METRICS ─────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// ───────────────────────── DB ─────────────────────────
	var pgDB *pgxpool.Pool
	if cfg.UsesPostgres() {
		pgDB, err = db.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("postgres init failed")
		}
		defer pgDB.Close()
	}

	// ───────────────────────── MENU ─────────────────────────
	var source menu.Source
	switch cfg.MenuSource {
	case config.MenuSourcePostgres:
		source = menu.NewPostgresSource(pgDB, cfg.Schema())
	case config.MenuSourceR2:
		r2Client, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			log.WithError(err).Fatal("R2 init failed")
		}
		source = menu.NewObjectSource(r2Client, cfg.MenuObjectKey)
	default:
		source = menu.NewCSVFileSource(cfg.MenuCSVPath)
	}

	menuService := menu.NewService(source, cfg.Schema(), log.WithField("component", "menu"), m)
	if _, _, err := menuService.Reload(ctx); err != nil {
		log.WithError(err).Fatal("initial menu load failed")
	}

	// ───────────────────────── ORDERS ─────────────────────────
	var sink order.Sink
	switch cfg.OrderSink {
	case config.OrderSinkPostgres:
		sink = order.NewPostgresSink(pgDB)
	case config.OrderSinkCSV:
		sink = order.NewCSVSink(cfg.OrderLogPath, cfg.Policy())
	default:
		log.Warn("orders are kept in memory only")
		sink = order.NewInMemorySink()
	}

	var notifiers messaging.Fanout
	if cfg.AMQPURL != "" {
		rabbit, err := messaging.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPExchange, log.WithField("component", "rabbitmq"))
		if err != nil {
			log.WithError(err).Fatal("rabbitmq init failed")
		}
		defer rabbit.Close()
		notifiers = append(notifiers, rabbit)
	}
	if brokers := messaging.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafkaPub, err := messaging.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		if err != nil {
			log.WithError(err).Fatal("kafka init failed")
		}
		defer kafkaPub.Close()
		notifiers = append(notifiers, kafkaPub)
	}
	var notifier order.Notifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	orderService := order.NewService(
		menuService,
		order.NewAggregator(cfg.Policy()),
		sink,
		notifier,
		log.WithField("component", "orders"),
		m,
	)

	// ───────────────────────── SESSIONS ─────────────────────────
	store := session.NewStore(cfg.SessionTTL, cfg.MaxPerItem)
	sessionService := session.NewService(store, menuService, orderService, log.WithField("component", "sessions"))

	go store.RunSweeper(ctx, time.Minute, func(n int) {
		log.WithField("expired", n).Debug("idle sessions swept")
	})

	// ───────────────────────── AUTH ─────────────────────────
	deps := router.Deps{
		Log:         log,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		Menu:        menuService,
		Orders:      orderService,
		Sessions:    sessionService,
	}

	if cfg.StaffEnabled() {
		tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.WithError(err).Fatal("auth init failed")
		}
		staffRepo := auth.NewInMemoryStaffRepository()
		staffRepo.Save(&auth.Staff{
			Username:     cfg.StaffUsername,
			PasswordHash: cfg.StaffPasswordHash,
			Role:         cfg.StaffRole,
		})
		deps.Auth = auth.NewService(staffRepo, tokens)
		deps.Tokens = tokens
	}

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
