package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingProcessor keeps every emitted log record in memory
type recordingProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, r.Clone())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestNew_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, Config{Enabled: false, CollectorEndpoint: "localhost:14317", ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Equal(t, otel.GetTracerProvider(), p.TracerProvider())

	log := zap.NewNop()
	assert.Same(t, log, p.Bridge(log), "no log pipeline leaves the logger alone")
	assert.NoError(t, p.Shutdown(ctx))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestProvider_Bridge(t *testing.T) {
	rec := &recordingProcessor{}
	p := &Provider{
		logs: sdklog.NewLoggerProvider(sdklog.WithProcessor(rec)),
		cfg:  Config{ServiceName: "teashop-test"},
		log:  zap.NewNop(),
	}

	core, logs := observer.New(zapcore.InfoLevel)
	bridged := p.Bridge(zap.New(core))

	bridged.Debug("below the base level")
	bridged.Info("stock checked", zap.String("item", "oolong"))
	bridged.Warn("low stock")

	assert.Equal(t, 2, logs.Len(), "the original core still receives entries")
	assert.Equal(t, []string{"stock checked", "low stock"}, rec.bodies())

	require.NoError(t, p.Shutdown(context.Background()))
}
