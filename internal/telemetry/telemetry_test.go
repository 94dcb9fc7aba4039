package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracerProvider_Stdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := t.Context()

	tp, err := telemetry.InitTracerProvider(ctx, "storefront", "test", "", &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "cart.AddProduct")
	span.End()

	require.NoError(t, tp.Shutdown(ctx))
	assert.Contains(t, buf.String(), "cart.AddProduct")
	assert.Contains(t, buf.String(), "storefront")
}
