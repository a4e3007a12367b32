package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/email"
	"github.com/meridianpsych/clinic-api/internal/repository/postgres"
	"github.com/meridianpsych/clinic-api/internal/worker"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/messaging/redis"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
)

func startHealthServer(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			l.Fatal(err, "health server failed")
		}
	}()
}

func main() {
	l := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, l.Zerolog())
	if err != nil {
		l.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	m := metrics.NewMetrics("clinic_worker")

	processor := worker.NewProcessor(outboxRepo, broker, cfg.Worker, l, m)
	notifier := worker.NewEngagementNotifier(broker, email.NewSender(cfg.SMTP, l), cfg.Admin.NotifyEmails, l)

	startHealthServer(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		l.Info("shutting down worker")
		cancel()
	}()

	go func() {
		if err := notifier.Run(ctx); err != nil {
			l.Error(err, "engagement notifier stopped")
		}
	}()

	processor.Run(ctx)
}
