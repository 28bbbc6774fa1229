package otelcol

import (
	"testing"

	"growpreen/pkg/config"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestTracerProviderDisabled(t *testing.T) {
	cfg := config.Default()
	lc := fxtest.NewLifecycle(t)

	tp, err := NewTracerProvider(lc, cfg)
	require.NoError(t, err)
	require.Equal(t, otel.GetTracerProvider(), tp)
}

func TestTracerProviderUnknownExporter(t *testing.T) {
	cfg := config.Default()
	cfg.Otel.Enable = true
	cfg.Otel.Exporter = "zipkin"

	_, err := NewTracerProvider(fxtest.NewLifecycle(t), cfg)
	require.Error(t, err)
}

func TestTracerProviderHTTP(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := config.Default()
	cfg.Otel.Enable = true
	lc := fxtest.NewLifecycle(t)

	tp, err := NewTracerProvider(lc, cfg)
	require.NoError(t, err)
	require.IsType(t, &sdktrace.TracerProvider{}, tp)
	require.Equal(t, tp, otel.GetTracerProvider())

	lc.RequireStart().RequireStop()
}
