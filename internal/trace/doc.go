// Package trace provides a tracing subsystem for wstok runs.
//
// The trace package records driver, pass and per-file events to help diagnose
// slow directory runs.
//
// # Usage
//
//	wstok tokenize --trace=- --trace-level=detail ./corpus
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelPhase: Driver and pass boundaries (load, validate, scan)
//   - LevelDetail: Per-file events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "scan", parentID)
//	defer span.End("")
package trace
