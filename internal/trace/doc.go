// Package trace provides structured tracing for the nf toolchain and the
// script interpreter.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	nf run --trace=- --trace-level=phase script.nf
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: last N events, written out on Close (flight recorder)
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only dumps on failure
//   - LevelPhase: driver and phase boundaries (lex, parse, run)
//   - LevelDetail: function calls
//   - LevelDebug: everything including statement nodes
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	ctx = trace.WithScript(trace.WithParent(ctx, batch.ID()), path)
//	span := trace.Begin(t, trace.ScopePhase, "run", trace.ParentFrom(ctx))
//	defer span.End("")
//
// Heartbeats name the span begun last and the number of open spans.
package trace
