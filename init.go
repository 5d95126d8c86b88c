package main

import (
	"context"

	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/config"
	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/telemetry"
	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	tracer   trace.Tracer
	client   *dhlparcel.Client
	shutdown func(context.Context) error
}

func setup(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	tracer, shutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
		shutdown = func(context.Context) error { return nil }
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tracer:   tracer,
		client:   initClient(cfg, logger, tracer),
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("Failed to shut down tracer", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) serviceOptions() dhlparcel.ServiceOptions {
	opts := a.cfg.ServiceOptions()
	opts.Logger = a.logger
	opts.Tracer = a.tracer
	return opts
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
}

func initClient(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *dhlparcel.Client {
	return dhlparcel.New(cfg.DHL(), logger, tracer)
}
