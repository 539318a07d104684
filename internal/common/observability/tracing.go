package observability

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ats-workers/internal/common/logger"
)

// Option configures New.
type Option func(*options)

type options struct {
	spanProcessors []sdktrace.SpanProcessor
}

// WithSpanProcessor registers a processor on the tracer provider. Without
// one, spans only carry trace context between stages and are not exported.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) {
		o.spanProcessors = append(o.spanProcessors, sp)
	}
}

func newTracerProvider(processors []sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	for _, sp := range processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	return sdktrace.NewTracerProvider(tpOpts...)
}

// LogSpanProcessor writes every ended span to a Logger at debug level, or at
// warn level when the span ended with an error status.
type LogSpanProcessor struct {
	log logger.Logger
}

func NewLogSpanProcessor(log logger.Logger) *LogSpanProcessor {
	return &LogSpanProcessor{log: log}
}

func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := map[string]interface{}{
		"span":        s.Name(),
		"trace_id":    s.SpanContext().TraceID().String(),
		"span_id":     s.SpanContext().SpanID().String(),
		"duration_ms": s.EndTime().Sub(s.StartTime()).Milliseconds(),
	}
	if s.Parent().IsValid() {
		fields["parent_id"] = s.Parent().SpanID().String()
	}
	for _, kv := range s.Attributes() {
		fields[string(kv.Key)] = kv.Value.Emit()
	}
	if st := s.Status(); st.Code == codes.Error {
		fields["status"] = st.Description
		p.log.Warn("span ended with error", fields)
		return
	}
	p.log.Debug("span ended", fields)
}

func (p *LogSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }
