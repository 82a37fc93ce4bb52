package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/orderflow/telemetry"
)

func TestInit_NoEndpoint(t *testing.T) {
	tp, shutdown, err := telemetry.Init(context.Background(), telemetry.Config{})
	require.NoError(t, err)
	require.NotNil(t, tp)

	_, span := tp.Tracer(telemetry.TracerName).Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_WithEndpoint(t *testing.T) {
	// The gRPC exporter connects lazily, so no collector is needed here.
	tp, shutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "test",
		Endpoint:    "127.0.0.1:4317",
		Insecure:    true,
	})
	require.NoError(t, err)

	_, span := tp.Tracer(telemetry.TracerName).Start(context.Background(), "recorded")
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Export fails without a collector; shutdown must still return.
	_ = shutdown(ctx)
}
