package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/supermq/pkg/jaeger"
	"github.com/absmach/supermq/pkg/prometheus"
	"github.com/absmach/supermq/pkg/server"
	httpserver "github.com/absmach/supermq/pkg/server/http"
	"github.com/caarlos0/env/v11"
	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/fedstore/fedroute/router"
	"github.com/fedstore/fedroute/router/api"
	"github.com/fedstore/fedroute/router/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "router"
	defHTTPPort   = "7070"
	envPrefixHTTP = "ROUTER_HTTP_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel        string        `env:"ROUTER_LOG_LEVEL"         envDefault:"info"`
	InstanceID      string        `env:"ROUTER_INSTANCE_ID"`
	MQTTAddress     string        `env:"ROUTER_MQTT_ADDRESS"      envDefault:"tcp://localhost:1883"`
	MQTTQoS         uint8         `env:"ROUTER_MQTT_QOS"          envDefault:"2"`
	MQTTTimeout     time.Duration `env:"ROUTER_MQTT_TIMEOUT"      envDefault:"30s"`
	MQTTUsername    string        `env:"ROUTER_MQTT_USERNAME"`
	MQTTPassword    string        `env:"ROUTER_MQTT_PASSWORD"`
	DomainID        string        `env:"ROUTER_DOMAIN_ID"`
	RoutesFile      string        `env:"ROUTER_ROUTES_FILE"       envDefault:"routes.toml"`
	PoliciesFile    string        `env:"ROUTER_POLICIES_FILE"     envDefault:"policies.toml"`
	FeaturesFile    string        `env:"ROUTER_FEATURES_FILE"     envDefault:"features.toml"`
	UsageLogEnabled bool          `env:"ROUTER_USAGE_LOG_ENABLED" envDefault:"true"`
	UsageLogDB      string        `env:"ROUTER_USAGE_LOG_DB"`
	OTELURL         url.URL       `env:"ROUTER_OTEL_URL"`
	TraceRatio      float64       `env:"ROUTER_TRACE_RATIO"       envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, "", cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	routes, err := connection.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		logger.Error("failed to load routing table", slog.String("error", err.Error()))

		return
	}

	policies, err := policy.LoadIndex(cfg.PoliciesFile)
	if err != nil {
		logger.Error("failed to load policy index", slog.String("error", err.Error()))

		return
	}

	registry, err := usagelog.LoadRegistry(cfg.FeaturesFile)
	if err != nil {
		logger.Error("failed to load feature registry", slog.String("error", err.Error()))

		return
	}

	var usage usagelog.Repository
	switch cfg.UsageLogDB {
	case "":
		usage = usagelog.NewInMemoryRepository(registry, cfg.UsageLogEnabled)
	default:
		usage, err = usagelog.NewSqliteRepository(registry, cfg.UsageLogEnabled, cfg.UsageLogDB)
		if err != nil {
			logger.Error("failed to open usage log database", slog.String("error", err.Error()))

			return
		}
	}

	connector := connection.NewMQTTConnector(connection.MQTTConfig{
		Address:  cfg.MQTTAddress,
		QoS:      cfg.MQTTQoS,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
		DomainID: cfg.DomainID,
		Timeout:  cfg.MQTTTimeout,
	}, logger)
	broker := connection.NewBroker(connector, routes, logger)

	svc := router.NewService(policies, broker, usage, logger)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}

	if err := svc.Shutdown(context.Background()); err != nil {
		logger.Error("failed to release client connections", slog.Any("error", err))
	}
}
