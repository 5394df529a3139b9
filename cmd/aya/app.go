package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"aya-hq/companion/pkg/assistant"
	"aya-hq/companion/pkg/chat"
	"aya-hq/companion/pkg/cli"
	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/limits/ratelimit"
	"aya-hq/companion/pkg/privacy"
	"aya-hq/companion/pkg/providers"
	"aya-hq/companion/pkg/security/secrets"
	"aya-hq/companion/pkg/server"
	"aya-hq/companion/pkg/session"
	"aya-hq/companion/pkg/telemetry/health"
	"aya-hq/companion/pkg/telemetry/logging"
	"aya-hq/companion/pkg/telemetry/metrics"
	"aya-hq/companion/pkg/telemetry/tracing"
)

// app holds the wired components shared by the run, ask and health commands.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	tokenFile *secrets.FileToken
	tracer    *tracing.Tracer
	metrics   *metrics.Collector
	assistant *assistant.Service
	sessions  *session.Store
	janitor   *session.Janitor
	limiter   *ratelimit.KeyedLimiter
	chat      *chat.Handler
	health    *health.Checker
}

// loadConfig loads the process configuration from cfgFile and the
// environment.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newApp builds every component from cfg. Logs are written to logOut.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	logCfg.Writer = logOut
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewCommandError("tracing", err)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	var tokenFile *secrets.FileToken
	if cfg.Model.TokenFile != "" {
		if tokenFile, err = secrets.NewFileToken(cfg.Model.TokenFile, true); err != nil {
			_ = tracer.Shutdown(context.Background())
			return nil, cli.NewConfigError("model.token_file", err.Error())
		}
	}

	transportCfg := providers.TransportConfig{
		Name:         cfg.Model.Name,
		Endpoint:     cfg.Model.Endpoint,
		Token:        cfg.Model.Token,
		Timeout:      cfg.Model.Timeout,
		MaxIdleConns: cfg.Model.MaxIdleConns,
	}
	if tokenFile != nil {
		transportCfg.Credentials = tokenFile
	}
	transport, err := providers.NewTransport(transportCfg)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		if tokenFile != nil {
			_ = tokenFile.Close()
		}
		return nil, cli.NewConfigError("model", err.Error())
	}

	svc := assistant.New(transport, assistant.ConfigFromModel(cfg.Model),
		assistant.WithMetrics(collector),
		assistant.WithTracer(tracer),
	)

	store := session.NewStore(cfg.Sessions.MaxMessages, session.WithMetrics(collector))
	janitor := session.NewJanitor(store, cfg.Sessions.CleanupSchedule, cfg.Sessions.MaxAge)

	var limiter *ratelimit.KeyedLimiter
	if cfg.Sessions.RateLimit.Enabled {
		limiter = ratelimit.NewKeyedLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.Sessions.RateLimit.RequestsPerMinute,
			Burst:             cfg.Sessions.RateLimit.Burst,
		})
		janitor.AddSweep("rate_limit_buckets", limiter.Prune)
	}

	screener := privacy.NewScreener(cfg.Privacy, collector)
	handler := chat.NewHandler(store, svc, screener,
		chat.WithMetrics(collector),
		chat.WithTracer(tracer),
	)

	checker := health.New(health.DefaultCheckTimeout)
	checker.RegisterCheck(svc.Provider(), svc.Check)

	return &app{
		cfg:       cfg,
		logger:    logger,
		tokenFile: tokenFile,
		tracer:    tracer,
		metrics:   collector,
		assistant: svc,
		sessions:  store,
		janitor:   janitor,
		limiter:   limiter,
		chat:      handler,
		health:    checker,
	}, nil
}

// server builds the HTTP server over the app's components.
func (a *app) server() *server.Server {
	return server.New(a.cfg, server.Deps{
		Chat:      a.chat,
		Sessions:  a.sessions,
		Assistant: a.assistant,
		Limiter:   a.limiter,
		Metrics:   a.metrics,
		Health:    a.health,
		Version:   versionInfo(),
	})
}

// close stops background work and flushes pending spans.
func (a *app) close() {
	a.janitor.Stop()
	if a.tokenFile != nil {
		_ = a.tokenFile.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		slog.Warn("tracer shutdown failed", "error", err)
	}
}
