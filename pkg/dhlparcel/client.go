// Package dhlparcel provides integration with the DHL Parcel DE Shipping API v2.
//
// Shipments are built from validated value objects (Package, Address,
// Shipment) and sent through a ShipmentService, which uses a Transport for
// the actual HTTP exchange.
package dhlparcel

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds DHL Parcel DE configuration.
type Config struct {
	Username string
	Password string
	APIKey   string

	Production bool
	UseMock    bool // When true, uses MockTransport

	// BaseURL overrides the production or sandbox endpoint.
	BaseURL string
	Timeout time.Duration
}

// Client hands out ShipmentServices bound to one Transport.
type Client struct {
	config    Config
	transport Transport
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new DHL client.
// If cfg.UseMock is true, it uses a mock transport for testing.
// Otherwise, it uses the real HTTP transport.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var transport Transport

	if cfg.UseMock {
		transport = NewMockTransport()
	} else {
		transport = NewHTTPTransport(HTTPTransportConfig{
			Username:   cfg.Username,
			Password:   cfg.Password,
			APIKey:     cfg.APIKey,
			Production: cfg.Production,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
		})
	}

	return NewWithTransport(cfg, transport, logger, tracer)
}

// NewWithTransport creates a new DHL client with a custom transport.
// This is useful for injecting mock transports in tests.
func NewWithTransport(cfg Config, transport Transport, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &Client{
		config:    cfg,
		transport: transport,
		logger:    logger,
		tracer:    tracer,
	}
}

// Transport returns the transport the client sends requests through.
func (c *Client) Transport() Transport {
	return c.transport
}

// Config returns the configuration the client was built from.
func (c *Client) Config() Config {
	return c.config
}

// ShipmentService returns a new service. Logger and Tracer default to the
// client's own when opts leaves them unset.
func (c *Client) ShipmentService(opts ServiceOptions) *ShipmentService {
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	if opts.Tracer == nil {
		opts.Tracer = c.tracer
	}
	return NewShipmentService(c.transport, opts)
}
