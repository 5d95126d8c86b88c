package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DHL Parcel DE
	DHLUsername    string        `envconfig:"DHL_USERNAME"`
	DHLPassword    string        `envconfig:"DHL_PASSWORD"`
	DHLAPIKey      string        `envconfig:"DHL_API_KEY"`
	DHLProduction  bool          `envconfig:"DHL_PRODUCTION" default:"false"`
	DHLUseMock     bool          `envconfig:"DHL_USE_MOCK" default:"false"`
	DHLBaseURL     string        `envconfig:"DHL_BASE_URL"`
	DHLTimeout     time.Duration `envconfig:"DHL_TIMEOUT" default:"30s"`
	DHLProfile     string        `envconfig:"DHL_PROFILE" default:"STANDARD_GRUPPENPROFIL"`
	DHLLabelFormat string        `envconfig:"DHL_LABEL_FORMAT"`

	// CLI
	DeleteConcurrency int `envconfig:"DELETE_CONCURRENCY" default:"4"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"dhl-parcel-de"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables. Variables from a
// .env file in the working directory are loaded first; variables already
// set in the environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check by itself.
func (c *Config) Validate() error {
	if c.DHLLabelFormat != "" && !dhlparcel.LabelFormat(c.DHLLabelFormat).Valid() {
		return fmt.Errorf("invalid DHL_LABEL_FORMAT %q", c.DHLLabelFormat)
	}
	if c.DeleteConcurrency < 1 {
		return fmt.Errorf("DELETE_CONCURRENCY must be at least 1, got %d", c.DeleteConcurrency)
	}
	if c.DHLProfile == "" {
		return errors.New("DHL_PROFILE must not be empty")
	}
	return nil
}

// DHL returns the client configuration.
func (c *Config) DHL() dhlparcel.Config {
	return dhlparcel.Config{
		Username:   c.DHLUsername,
		Password:   c.DHLPassword,
		APIKey:     c.DHLAPIKey,
		Production: c.DHLProduction,
		UseMock:    c.DHLUseMock,
		BaseURL:    c.DHLBaseURL,
		Timeout:    c.DHLTimeout,
	}
}

// ServiceOptions returns the shipment service options derived from the
// configuration. Logger, tracer and metrics are left for the caller.
func (c *Config) ServiceOptions() dhlparcel.ServiceOptions {
	return dhlparcel.ServiceOptions{
		Profile:     c.DHLProfile,
		LabelFormat: dhlparcel.LabelFormat(c.DHLLabelFormat),
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("dhl.production", c.DHLProduction),
		attribute.Bool("dhl.use_mock", c.DHLUseMock),
		attribute.String("dhl.profile", c.DHLProfile),
	}
}
