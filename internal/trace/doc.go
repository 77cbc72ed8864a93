// Package trace records what the bfgex pipeline is doing.
//
// Enable tracing via command-line flags:
//
//	bfgex check --trace=- --trace-level=phase patterns.txt
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer, dumped on failure
//   - MultiTracer: combines multiple tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass events, LevelDetail adds one span per
// pattern file, LevelDebug adds the parser's grammar rules (ScopeNode).
//
// # Context propagation
//
// The tracer and the current span travel in the context; StartSpan parents
// the new span to whatever span ctx already carries:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	pass, ctx := trace.StartSpan(ctx, trace.ScopePass, "check")
//	defer pass.End("")
package trace
