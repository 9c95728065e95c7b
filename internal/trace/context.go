package trace

import "context"

type (
	tracerKey struct{}
	parentKey struct{}
	scriptKey struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// WithParent records the span that work started under ctx nests in.
// The batch span of a run is the parent of every per-script "run" span.
func WithParent(ctx context.Context, spanID uint64) context.Context {
	if spanID == 0 {
		return ctx
	}
	return context.WithValue(ctx, parentKey{}, spanID)
}

// ParentFrom returns the span ID set by WithParent, 0 for a root.
func ParentFrom(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64)
	return id
}

// WithScript tags ctx with the path of the script being executed.
func WithScript(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, scriptKey{}, path)
}

// ScriptFrom returns the script path set by WithScript.
func ScriptFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(scriptKey{}).(string)
	return s
}
