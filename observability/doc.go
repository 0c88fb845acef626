// Package observability provides ready-made listeners for the bootstrap
// lifecycle.
//
// [MetricsListener] records OpenTelemetry counters for fired checkpoints,
// used bundles and installed extensions. [DebugListener] logs every
// checkpoint with a payload summary and the time spent since the previous
// one, and keeps the timeline for a final report.
//
// For per-listener tracing and metrics, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
