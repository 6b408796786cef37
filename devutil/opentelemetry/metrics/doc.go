// Package metrics provides a cached factory for OpenTelemetry metric instruments.
//
// MetricsFactory creates each instrument once and hands out immutable
// builders for attaching labels. The handle helpers record the guarded-cell
// metrics emitted by the shared package.
package metrics
