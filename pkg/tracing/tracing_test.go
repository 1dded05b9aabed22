package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	cfg := DefaultConfig("cart")
	cfg.Enabled = false

	shutdown, err := Init(context.Background(), cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("cart")

	assert.Equal(t, "cart", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestTracer_ReturnsNamedTracer(t *testing.T) {
	tr := Tracer("cart")
	require.NotNil(t, tr)

	_, span := tr.Start(context.Background(), "op")
	span.End()
}
