package telemetry_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/telemetry"
	"github.com/sonnenglas/dhl-parcel-de-sdk/pkg/dhlparcel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap/zapcore"
)

var _ dhlparcel.MetricsRecorder = (*telemetry.Metrics)(nil)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, telemetry.ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, telemetry.ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, telemetry.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, telemetry.ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	logger, err := telemetry.NewLogger("debug")

	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	metrics.RecordRequest(dhlparcel.OperationCreate, "success", 0.2)
	metrics.RecordRequest(dhlparcel.OperationCreate, "error", 0.1)
	metrics.RecordError(dhlparcel.OperationCreate, "client_error")
	metrics.RecordHTTP("/shipments", "201")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(dhlparcel.OperationCreate, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Errors.WithLabelValues(dhlparcel.OperationCreate, "client_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/shipments", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RequestDuration))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.NewMetrics(prometheus.NewRegistry())
		telemetry.NewMetrics(prometheus.NewRegistry())
	})
}

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := telemetry.InitTracer(ctx, "http://127.0.0.1:4318", "dhl-test",
		attribute.String("service.name", "dhl-test"),
		attribute.String("service.version", "0.0.1"),
	)

	require.NoError(t, err)
	require.NotNil(t, tracer)
	_, span := tracer.Start(ctx, "test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	_, globalSpan := telemetry.Tracer("dhl-test").Start(ctx, "global")
	assert.True(t, globalSpan.SpanContext().IsValid())
	globalSpan.End()

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = shutdown(shutdownCtx)
}
