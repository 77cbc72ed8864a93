package trace

import "context"

type (
	tracerKey  struct{}
	spanCtxKey struct{}
)

// SpanContext is what child spans need to know about their parent.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// WithTracer stores t in ctx; a nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpanContext stores sc in ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// CurrentSpan returns the innermost span stored in ctx; the zero value means none.
func CurrentSpan(ctx context.Context) SpanContext {
	var sc SpanContext
	if ctx != nil {
		sc, _ = ctx.Value(spanCtxKey{}).(SpanContext)
	}
	return sc
}

// StartSpan opens a span under the span stored in ctx using the tracer
// stored in ctx. The returned context carries the new span, so spans started
// from it become its children. A disabled span leaves ctx untouched.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span.ID() == 0 {
		return span, ctx
	}
	return span, WithSpanContext(ctx, SpanContext{SpanID: span.ID(), GID: span.gid})
}
