package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/manifest"
	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/telemetry"
	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request ID assigned to every request.
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP bridge in front of the DHL client.
type Server struct {
	port     int
	client   *dhlparcel.Client
	options  dhlparcel.ServiceOptions
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

// Config holds server configuration.
type Config struct {
	Port int

	// Options are the base options of the per-request shipment services.
	Options dhlparcel.ServiceOptions

	// Registry receives the service metrics and backs /metrics. A new
	// registry is created when nil.
	Registry *prometheus.Registry
}

// New creates a new server instance.
func New(cfg Config, client *dhlparcel.Client, logger *otelzap.Logger) *Server {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Server{
		port:     cfg.Port,
		client:   client,
		options:  cfg.Options,
		logger:   logger,
		metrics:  telemetry.NewMetrics(registry),
		registry: registry,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Shipments
	mux.Handle("POST /shipments", s.instrument("/shipments", s.handleCreate))
	mux.Handle("DELETE /shipments/{number}", s.instrument("/shipments/{number}", s.handleDelete))
	mux.Handle("GET /shipments/{number}/label", s.instrument("/shipments/{number}/label", s.handleLabel))

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ============================================================================
// Response types
// ============================================================================

type errorResponse struct {
	Error           string `json:"error"`
	RequestID       string `json:"requestId,omitempty"`
	CarrierResponse string `json:"carrierResponse,omitempty"`
}

type createResponse struct {
	Status    string             `json:"status"`
	Detail    string             `json:"detail,omitempty"`
	Shipments []shipmentResponse `json:"shipments"`
}

type shipmentResponse struct {
	ShipmentNo         string              `json:"shipmentNo"`
	ReturnShipmentNo   string              `json:"returnShipmentNo,omitempty"`
	Status             string              `json:"status"`
	StatusCode         int                 `json:"statusCode"`
	Label              []byte              `json:"label,omitempty"`
	LabelURL           string              `json:"labelUrl,omitempty"`
	LabelFormat        string              `json:"labelFormat,omitempty"`
	PrintFormat        string              `json:"printFormat,omitempty"`
	ValidationMessages []validationMessage `json:"validationMessages,omitempty"`
}

type validationMessage struct {
	Property string `json:"property"`
	Message  string `json:"message"`
	State    string `json:"state"`
}

type deleteResponse struct {
	ShipmentNo      string `json:"shipmentNo"`
	Deleted         bool   `json:"deleted"`
	CarrierResponse string `json:"carrierResponse,omitempty"`
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, err := manifest.Decode(r.Body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid manifest: %w", err), "")
		return
	}
	shipments, err := m.Build()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err, "")
		return
	}

	svc := s.service(m.ServiceOptions(s.options))
	resp, err := svc.CreateShipment(ctx, shipments...)
	if err != nil {
		s.writeServiceError(w, r, err, svc.LastErrorResponse())
		return
	}

	out := createResponse{
		Status:    resp.StatusTitle,
		Detail:    resp.StatusDetail,
		Shipments: make([]shipmentResponse, len(resp.Items)),
	}
	for i, item := range resp.Items {
		out.Shipments[i] = toShipmentResponse(item)
	}

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	svc := s.service(s.options)
	deleted := svc.DeleteShipment(r.Context(), number)

	writeJSON(w, http.StatusOK, deleteResponse{
		ShipmentNo:      number,
		Deleted:         deleted,
		CarrierResponse: svc.LastErrorResponse(),
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	opts := s.options
	if format := r.URL.Query().Get("format"); format != "" {
		opts.LabelFormat = dhlparcel.LabelFormat(format)
		if !opts.LabelFormat.Valid() {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown label format %q", format), "")
			return
		}
	}

	svc := s.service(opts)
	resp, err := svc.FetchLabel(r.Context(), number)
	if err != nil {
		s.writeServiceError(w, r, err, svc.LastErrorResponse())
		return
	}

	for _, item := range resp.Items {
		if item.ShipmentNo != number {
			continue
		}
		switch {
		case len(item.Label) > 0:
			w.Header().Set("Content-Type", labelContentType(item.LabelFormat))
			w.Header().Set("Content-Length", strconv.Itoa(len(item.Label)))
			w.WriteHeader(http.StatusOK)
			w.Write(item.Label)
			return
		case item.LabelURL != "":
			http.Redirect(w, r, item.LabelURL, http.StatusFound)
			return
		}
	}

	s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no label for shipment %s", number), "")
}

// service returns a new ShipmentService for one request.
func (s *Server) service(opts dhlparcel.ServiceOptions) *dhlparcel.ShipmentService {
	opts.Metrics = s.metrics
	return s.client.ShipmentService(opts)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, carrierBody string) {
	switch {
	case errors.Is(err, dhlparcel.ErrInvalidArgument),
		errors.Is(err, dhlparcel.ErrMissingArgument),
		errors.Is(err, dhlparcel.ErrInvalidAddress):
		s.writeError(w, r, http.StatusBadRequest, err, "")
	case errors.Is(err, &dhlparcel.ClientError{}):
		s.writeError(w, r, http.StatusBadGateway, err, carrierBody)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err, "")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error, carrierBody string) {
	requestID := w.Header().Get(RequestIDHeader)
	s.logger.Ctx(r.Context()).Warn("Request failed",
		zap.String("request_id", requestID),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeJSON(w, status, errorResponse{
		Error:           err.Error(),
		RequestID:       requestID,
		CarrierResponse: carrierBody,
	})
}

// instrument assigns a request ID, logs the request and counts it.
func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)

		s.metrics.RecordHTTP(route, strconv.Itoa(rec.status))
		s.logger.Ctx(r.Context()).Info("Handled request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func toShipmentResponse(item dhlparcel.ShipmentItemResponse) shipmentResponse {
	out := shipmentResponse{
		ShipmentNo:       item.ShipmentNo,
		ReturnShipmentNo: item.ReturnShipmentNo,
		Status:           item.ShipmentStatusTitle,
		StatusCode:       item.ShipmentStatusCode,
		Label:            item.Label,
		LabelURL:         item.LabelURL,
		LabelFormat:      item.LabelFormat,
		PrintFormat:      item.PrintFormat,
	}
	for _, m := range item.ValidationMessages {
		out.ValidationMessages = append(out.ValidationMessages, validationMessage{
			Property: m.Property,
			Message:  m.Message,
			State:    m.State,
		})
	}
	return out
}

func labelContentType(fileFormat string) string {
	switch fileFormat {
	case "PDF":
		return "application/pdf"
	case "ZPL2":
		return "application/x-zpl"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
