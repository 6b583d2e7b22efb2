package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := useRecorder(t)

	ctx, span := StartSpan(context.Background(), "inventory.adjust_stock", attribute.String("item.id", "it-1"))
	assert.NotEmpty(t, TraceID(ctx))
	End(span, nil)

	_, failed := StartSpan(ctx, "inventory.check_stock")
	End(failed, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "inventory.adjust_stock", spans[0].Name())
	assert.Equal(t, TracerName, spans[0].InstrumentationScope().Name)
	assert.Contains(t, spans[0].Attributes(), attribute.String("item.id", "it-1"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, spans[0].SpanContext().TraceID(), spans[1].Parent().TraceID(), "child shares the trace")
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}
