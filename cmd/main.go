package main

import (
	"context"
	"database/sql"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"health_monitor/internal/config"
	"health_monitor/internal/display"
	"health_monitor/internal/feedback"
	"health_monitor/internal/handlers"
	"health_monitor/internal/logger"
	"health_monitor/internal/metrics"
	"health_monitor/internal/notify"
	"health_monitor/internal/repository"
	"health_monitor/internal/repository/db"
	"health_monitor/internal/server"
	"health_monitor/internal/service"

	"github.com/go-redis/redis/v8"
)

const serviceName = "health-monitor"

func main() {
	// load configs/config.yml (HM_* env overrides)
	cfg, err := config.Load(os.Getenv("HM_CONFIG"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(cfg.Log.Level, cfg.Log.Format, serviceName)
	defer func() { _ = log.Sync() }()

	// open DB
	sqlDB, err := db.InitDB(cfg.Persistence.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.Persistence.DBPath)
	}
	defer closeDB(sqlDB, log)

	repos, closeRepos := buildRepositories(cfg, sqlDB, log)
	defer closeRepos()

	// outbound channels
	sender, closeSender := buildSender(cfg, log)
	defer closeSender()

	fb, closeFeedback := buildFeedback(cfg, log)
	defer closeFeedback()

	hub := display.NewHub(0, log)
	rec := metrics.New()

	// wire the monitoring session
	sched := service.NewTimerScheduler()
	dispatcher := service.NewNotificationDispatcher(cfg.DispatcherSettings(), sched, sender, log)
	monitor := service.NewMonitor(cfg.MonitorSettings(), service.MonitorDeps{
		Generator:   service.NewVitalsGenerator(newRand(cfg.Simulation.Seed)),
		Dispatcher:  dispatcher,
		Scheduler:   sched,
		Display:     display.Multi{hub, display.NewLogSink(log)},
		Feedback:    fb,
		Recorder:    rec,
		HistoryRepo: repos.HistoryRepo,
		AlertRepo:   repos.AlertRepo,
		Log:         log,
	})

	services := service.NewService(monitor, repos)
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithEvents(hub),
		handlers.WithMetrics(rec.Handler()),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor.Init(ctx)
	go services.Simulator.Run(ctx, cfg.Simulation.Tick)

	// start HTTP server
	srv := server.New(server.Config{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg, log)
}

// buildRepositories keeps the alert log in SQLite and puts the history snapshot
// in the configured backend.
func buildRepositories(cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*repository.Repository, func()) {
	repos := repository.NewRepository(sqlDB)
	if cfg.Persistence.Backend != config.BackendRedis {
		return repos, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to reach redis", "err", err, "addr", cfg.Redis.Addr)
	}
	repos.HistoryRepo = repository.NewHistoryRedis(client, cfg.Redis.Key)
	log.Infow("history_backend", "backend", config.BackendRedis, "addr", cfg.Redis.Addr)

	return repos, func() {
		if err := client.Close(); err != nil {
			log.Errorw("failed to close redis", "err", err)
		}
	}
}

func buildSender(cfg *config.Config, log *logger.Logger) (service.Sender, func()) {
	if cfg.Notify.Sender != config.SenderKafka {
		return notify.NewLogSender(log), func() {}
	}
	ks, err := notify.NewKafkaSender(notify.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}, log)
	if err != nil {
		log.Fatalw("failed to init kafka sender", "err", err)
	}
	return ks, func() {
		if err := ks.Close(); err != nil {
			log.Errorw("failed to close kafka writer", "err", err)
		}
	}
}

func buildFeedback(cfg *config.Config, log *logger.Logger) (service.FeedbackSink, func()) {
	if !cfg.MQTT.Enabled {
		return feedback.NewLogSink(log), func() {}
	}
	client, err := feedback.Connect(feedback.MQTTConfig{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         cfg.MQTT.QoS,
	})
	if err != nil {
		log.Fatalw("failed to connect to mqtt", "err", err)
	}
	sink := feedback.NewMQTTSink(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, log)
	log.Infow("feedback_mqtt_connected", "broker", cfg.MQTT.Broker, "topic", sink.Topic())
	return sink, func() { feedback.Disconnect(client) }
}

// newRand seeds the vitals walk; a zero seed means time-seeded.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("http_server_started", "port", port)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the tick loop and pending timers
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
