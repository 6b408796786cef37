// Package zap adapts go.uber.org/zap to the devutil log.Logger interface.
//
// Build one with New and hand it to shared, iterators, or runtime options;
// every entry emitted with an active span in ctx carries trace_id and span_id.
package zap
