package dhlparcel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// DefaultProfile is the user group profile every business customer account has.
const DefaultProfile = "STANDARD_GRUPPENPROFIL"

const ordersPath = "orders"

// Operation names used for spans and metrics.
const (
	OperationCreate = "create_shipment"
	OperationDelete = "delete_shipment"
	OperationLabel  = "fetch_label"
)

// MetricsRecorder receives per-call request and error observations.
type MetricsRecorder interface {
	RecordRequest(operation, status string, seconds float64)
	RecordError(operation, errorType string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, string, float64) {}
func (nopRecorder) RecordError(string, string)            {}

// ServiceOptions configures a ShipmentService. It is fixed at construction.
type ServiceOptions struct {
	// Profile defaults to DefaultProfile.
	Profile string

	// LabelFormat is sent as the printFormat query parameter when set.
	LabelFormat LabelFormat

	// ValidateOnly asks the carrier to validate orders without creating them.
	ValidateOnly bool

	Logger  *otelzap.Logger
	Tracer  trace.Tracer
	Metrics MetricsRecorder
}

// RequestOptions are the top-level fields of an order request.
type RequestOptions struct {
	Profile     string
	LabelFormat LabelFormat
}

// ShipmentService creates, deletes and re-fetches shipments. It keeps the
// body of the last response and the last error, so it must not be shared
// between goroutines.
type ShipmentService struct {
	transport    Transport
	profile      string
	labelFormat  LabelFormat
	validateOnly bool
	logger       *otelzap.Logger
	tracer       trace.Tracer
	metrics      MetricsRecorder

	lastRaw   json.RawMessage
	lastError string
}

// NewShipmentService creates a service that talks to the carrier through transport.
func NewShipmentService(transport Transport, opts ServiceOptions) *ShipmentService {
	if opts.Profile == "" {
		opts.Profile = DefaultProfile
	}
	if opts.Logger == nil {
		opts.Logger = otelzap.New(zap.NewNop())
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}

	return &ShipmentService{
		transport:    transport,
		profile:      opts.Profile,
		labelFormat:  opts.LabelFormat,
		validateOnly: opts.ValidateOnly,
		logger:       opts.Logger,
		tracer:       opts.Tracer,
		metrics:      opts.Metrics,
	}
}

// Profile returns the profile sent with every request.
func (s *ShipmentService) Profile() string {
	return s.profile
}

// LastRawResponse returns the carrier response body of the last call. It is
// nil when that call got no 2xx response.
func (s *ShipmentService) LastRawResponse() json.RawMessage {
	return s.lastRaw
}

// LastErrorResponse returns the carrier error body of the last call. It is
// empty when that call did not fail with a *ClientError.
func (s *ShipmentService) LastErrorResponse() string {
	return s.lastError
}

// BuildRequest assembles the order request for shipments.
func BuildRequest(shipments []Shipment, opts RequestOptions) (*OrderRequest, error) {
	if len(shipments) == 0 {
		return nil, missingArgument("shipments", "at least one shipment is required")
	}
	if opts.Profile == "" {
		return nil, missingArgument("profile", "profile is required")
	}
	if opts.LabelFormat != "" && !opts.LabelFormat.Valid() {
		return nil, invalidArgument("labelFormat", "unknown label format %q", opts.LabelFormat)
	}

	orders := make([]ShipmentOrder, len(shipments))
	for i, sh := range shipments {
		if err := sh.guard.validate(invalidArgument("shipments", "shipment %d must be created with NewShipment", i)); err != nil {
			return nil, err
		}
		orders[i] = sh.order()
	}

	return &OrderRequest{
		Profile:   opts.Profile,
		Shipments: orders,
	}, nil
}

// CreateShipment sends shipments to the carrier and returns the parsed result.
// A carrier rejection is returned as *ClientError and its body is kept as
// the last error response.
func (s *ShipmentService) CreateShipment(ctx context.Context, shipments ...Shipment) (*ShipmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dhlparcel.CreateShipment",
		trace.WithAttributes(
			attribute.String("dhl.profile", s.profile),
			attribute.Int("dhl.shipment_count", len(shipments)),
		),
	)
	defer span.End()
	start := time.Now()
	s.reset()

	req, err := BuildRequest(shipments, RequestOptions{Profile: s.profile, LabelFormat: s.labelFormat})
	if err != nil {
		s.fail(ctx, span, OperationCreate, start, err)
		return nil, err
	}

	s.logger.Ctx(ctx).Info("Creating DHL shipments",
		zap.String("profile", s.profile),
		zap.Int("shipment_count", len(shipments)),
		zap.Bool("validate_only", s.validateOnly),
	)

	query := url.Values{}
	if s.labelFormat != "" {
		query.Set("printFormat", string(s.labelFormat))
	}
	if s.validateOnly {
		query.Set("validate", "true")
	}

	raw, err := s.transport.Post(ctx, ordersPath, query, req)
	if err != nil {
		s.fail(ctx, span, OperationCreate, start, err)
		return nil, err
	}
	s.lastRaw = raw

	resp, err := ParseShipmentResponse(raw)
	if err != nil {
		s.fail(ctx, span, OperationCreate, start, err)
		return nil, err
	}

	for _, item := range resp.Items {
		span.AddEvent("shipment", trace.WithAttributes(attribute.String("dhl.shipment_no", item.ShipmentNo)))
	}
	s.succeed(ctx, OperationCreate, start)
	return resp, nil
}

// DeleteShipment cancels a shipment that has not been manifested yet. It
// reports whether the carrier confirmed the cancellation; errors are logged
// and kept as the last error response instead of being returned.
func (s *ShipmentService) DeleteShipment(ctx context.Context, shipmentNumber string) bool {
	ctx, span := s.tracer.Start(ctx, "dhlparcel.DeleteShipment",
		trace.WithAttributes(attribute.String("dhl.shipment_no", shipmentNumber)),
	)
	defer span.End()
	start := time.Now()
	s.reset()

	if shipmentNumber == "" {
		s.fail(ctx, span, OperationDelete, start, invalidArgument("shipmentNumber", "shipment number is required"))
		return false
	}

	s.logger.Ctx(ctx).Info("Deleting DHL shipment",
		zap.String("profile", s.profile),
		zap.String("shipment_no", shipmentNumber),
	)

	raw, err := s.transport.Delete(ctx, ordersPath, s.shipmentQuery(shipmentNumber))
	if err != nil {
		s.fail(ctx, span, OperationDelete, start, err)
		return false
	}
	s.lastRaw = raw

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.fail(ctx, span, OperationDelete, start, err)
		return false
	}

	deleted := deletionConfirmed(&resp, shipmentNumber)
	span.SetAttributes(attribute.Bool("dhl.deleted", deleted))
	if !deleted {
		s.logger.Ctx(ctx).Warn("DHL did not confirm deletion",
			zap.String("shipment_no", shipmentNumber),
			zap.Int("status_code", resp.Status.StatusCode),
			zap.String("status_title", resp.Status.Title),
		)
		s.metrics.RecordRequest(OperationDelete, "rejected", time.Since(start).Seconds())
		return false
	}

	s.succeed(ctx, OperationDelete, start)
	return true
}

// FetchLabel downloads the documents of an existing shipment again.
func (s *ShipmentService) FetchLabel(ctx context.Context, shipmentNumber string) (*ShipmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dhlparcel.FetchLabel",
		trace.WithAttributes(attribute.String("dhl.shipment_no", shipmentNumber)),
	)
	defer span.End()
	start := time.Now()
	s.reset()

	if shipmentNumber == "" {
		err := missingArgument("shipmentNumber", "shipment number is required")
		s.fail(ctx, span, OperationLabel, start, err)
		return nil, err
	}

	query := s.shipmentQuery(shipmentNumber)
	if s.labelFormat != "" {
		query.Set("printFormat", string(s.labelFormat))
	}

	raw, err := s.transport.Get(ctx, ordersPath, query)
	if err != nil {
		s.fail(ctx, span, OperationLabel, start, err)
		return nil, err
	}
	s.lastRaw = raw

	resp, err := ParseShipmentResponse(raw)
	if err != nil {
		s.fail(ctx, span, OperationLabel, start, err)
		return nil, err
	}

	s.succeed(ctx, OperationLabel, start)
	return resp, nil
}

// reset clears the state of the previous call.
func (s *ShipmentService) reset() {
	s.lastRaw = nil
	s.lastError = ""
}

func (s *ShipmentService) shipmentQuery(shipmentNumber string) url.Values {
	query := url.Values{}
	query.Set("profile", s.profile)
	query.Set("shipment", shipmentNumber)
	return query
}

// deletionConfirmed reports whether resp confirms that shipmentNumber was
// deleted. A 207 carries the per-shipment outcome in the items.
func deletionConfirmed(resp *apiResponse, shipmentNumber string) bool {
	switch resp.Status.StatusCode {
	case http.StatusOK:
		return true
	case http.StatusMultiStatus:
		for _, item := range resp.Items {
			if item.ShipmentNo == shipmentNumber {
				return item.Sstatus.StatusCode == http.StatusOK
			}
		}
	}
	return false
}

func (s *ShipmentService) succeed(ctx context.Context, operation string, start time.Time) {
	s.metrics.RecordRequest(operation, "success", time.Since(start).Seconds())
	s.logger.Ctx(ctx).Debug("DHL call completed",
		zap.String("operation", operation),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *ShipmentService) fail(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	errorType := "transport"
	var clientErr *ClientError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &clientErr):
		errorType = "client_error"
		s.lastError = clientErr.Body
	case errors.As(err, &validationErr):
		errorType = "validation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		errorType = "canceled"
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.RecordRequest(operation, "error", time.Since(start).Seconds())
	s.metrics.RecordError(operation, errorType)

	s.logger.Ctx(ctx).Error("DHL call failed",
		zap.String("operation", operation),
		zap.String("error_type", errorType),
		zap.Error(err),
	)
}
