package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/riandyrn/otelchi"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	ledger "github.com/pearltrails/engagement-ledger"
	"github.com/pearltrails/engagement-ledger/content"
	"github.com/pearltrails/engagement-ledger/handler"
	"github.com/pearltrails/engagement-ledger/leads"
	"github.com/pearltrails/engagement-ledger/metrics"
	"github.com/pearltrails/engagement-ledger/postgres"
	"github.com/pearltrails/engagement-ledger/redisstore"
	"github.com/pearltrails/engagement-ledger/relay"
	"github.com/pearltrails/engagement-ledger/snapshot"
)

func main() {

	log, err := newLog("engagement-ledger")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := run("engagement-ledger", log); err != nil {
		log.Errorw("startup", "err", err)
		os.Exit(1)
	}
}

func run(serverName string, log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// A local .env is optional.
	_ = godotenv.Load()

	cfg := struct {
		Http struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			Host            string        `conf:"default:0.0.0.0:3000"`
		}
		Storage struct {
			Driver string `conf:"default:memory,help:memory|postgres|redis"`
		}
		DB struct {
			User         string `conf:"default:ledger"`
			Password     string `conf:"default:ledger,mask"`
			Host         string `conf:"default:localhost"`
			Name         string `conf:"default:ledger"`
			MaxIdleConns int    `conf:"default:0"`
			MaxOpenConns int    `conf:"default:0"`
			DisableTLS   bool   `conf:"default:true"`
		}
		Redis struct {
			Addr     string `conf:"default:localhost:6379"`
			Password string `conf:"mask"`
			DB       int    `conf:"default:0"`
		}
		Relay struct {
			Endpoint  string
			AccessKey string `conf:"mask"`
			ReplyTo   string
			Timeout   time.Duration `conf:"default:10s"`
			AmqpURL   string        `conf:"mask"`
			Queue     string        `conf:"default:lead.captured"`
		}
		Jaeger struct {
			ReporterURI string  `conf:"default:http://localhost:14268/api/traces"`
			ServiceName string  `conf:"default:engagement-ledger"`
			Probability float64 `conf:"default:0.5"`
		}
	}{}

	help, err := conf.Parse("LEDGER", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// Storage Support

	log.Infow("startup", "status", "initializing storage", "driver", cfg.Storage.Driver)

	var store ledger.SnapshotStore
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.Open(postgres.Config{
			User:         cfg.DB.User,
			Password:     cfg.DB.Password,
			Host:         cfg.DB.Host,
			Name:         cfg.DB.Name,
			MaxIdleConns: cfg.DB.MaxIdleConns,
			MaxOpenConns: cfg.DB.MaxOpenConns,
			DisableTLS:   cfg.DB.DisableTLS,
		})
		if err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		defer func() {
			log.Infow("shutdown", "status", "stopping database support", "host", cfg.DB.Host)
			db.Close()
		}()

		log.Infow("startup", "status", "updating database schema", "database", cfg.DB.Name, "host", cfg.DB.Host)
		if err := postgres.Migrate(context.Background(), db); err != nil {
			return fmt.Errorf("updating database schema: %w", err)
		}
		store = postgres.NewSnapshotStore(db)

	case "redis":
		client, err := redisstore.Open(redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		store = redisstore.NewSnapshotStore(client)

	case "memory":
		store = snapshot.NewMemory()

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// =========================================================================
	// Start Tracing Support

	log.Infow("startup", "status", "initializing OT/Jaeger tracing support")

	traceProvider, err := startTracing(
		cfg.Jaeger.ServiceName,
		cfg.Jaeger.ReporterURI,
	)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer traceProvider.Shutdown(context.Background())

	// =========================================================================
	// Build stores and relay

	var notifier ledger.Notifier
	switch {
	case cfg.Relay.AmqpURL != "":
		log.Infow("startup", "status", "initializing AMQP relay", "queue", cfg.Relay.Queue)
		notifier = relay.NewAMQPNotifier(cfg.Relay.AmqpURL, cfg.Relay.Queue, log)
	case cfg.Relay.Endpoint != "":
		log.Infow("startup", "status", "initializing HTTP relay", "endpoint", cfg.Relay.Endpoint)
		notifier = relay.NewDispatcher(relay.Config{
			Endpoint:  cfg.Relay.Endpoint,
			AccessKey: cfg.Relay.AccessKey,
			ReplyTo:   cfg.Relay.ReplyTo,
			Timeout:   cfg.Relay.Timeout,
		}, log)
	default:
		log.Infow("startup", "status", "no relay configured, captures will not notify")
	}

	ctx := context.Background()
	leadRegistry := leads.NewRegistry(ctx, store, notifier, log)
	tracker := metrics.NewTracker(ctx, store, log)
	lodgeRegistry := content.NewRegistry(ctx, store, log)

	// =========================================================================
	// Create router

	log.Infow("startup", "status", "initializing router")

	otelLog := otelzap.New(log.Desugar(), otelzap.WithStackTrace(true)).Sugar()
	leadHandler := handler.NewLeadHandler(leadRegistry, otelLog.SugaredLogger)
	metricHandler := handler.NewMetricHandler(tracker, otelLog.SugaredLogger)
	lodgeHandler := handler.NewLodgeHandler(lodgeRegistry, otelLog.SugaredLogger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(serverName, otelchi.WithChiRoutes(r)))

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", leadHandler.Capture)
		r.Get("/", leadHandler.List)
		r.Patch("/{id}/status", leadHandler.UpdateStatus)
		r.Delete("/{id}", leadHandler.Delete)
	})

	r.Route("/engagement", func(r chi.Router) {
		r.Post("/{contentID}", metricHandler.Track)
		r.Get("/ranking", metricHandler.Ranking)
		r.Delete("/", metricHandler.Clear)
	})

	r.Route("/lodges", func(r chi.Router) {
		r.Get("/", lodgeHandler.List)
		r.Get("/featured", lodgeHandler.Featured)
		r.Get("/region/{region}", lodgeHandler.ByRegion)
	})

	r.Route("/admin/lodges", func(r chi.Router) {
		r.Get("/", lodgeHandler.AdminList)
		r.Patch("/{id}", lodgeHandler.Update)
		r.Post("/{id}/toggle/{field}", lodgeHandler.Toggle)
	})

	// =========================================================================
	// Start API Server

	log.Infow("startup", "status", "initializing http server")

	// The HTTP Server
	server := &http.Server{
		Addr:         cfg.Http.Host,
		Handler:      r,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Server run context
	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	// Listen for syscall signals for process to interrupt/quit
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.Http.ShutdownTimeout)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		// Trigger graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	// Run the server
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	// Wait for server context to be stopped
	<-serverCtx.Done()

	return nil
}

func newLog(serviceName string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}

func startTracing(serviceName, reporterURL string) (*tracesdk.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(reporterURL)))
	if err != nil {
		return nil, fmt.Errorf("creating new exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		// Always be sure to batch in production.
		tracesdk.WithBatcher(exp,
			tracesdk.WithMaxExportBatchSize(tracesdk.DefaultMaxExportBatchSize),
			tracesdk.WithBatchTimeout(tracesdk.DefaultScheduleDelay*time.Millisecond),
		),
		// Record information about this application in a Resource.
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("exporter", "jaeger"),
		)),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}
