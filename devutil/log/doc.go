// Package log defines the logging interface used by every devutil package.
//
// Packages accept a Logger and fall back to NewNop when none is given, so the
// primitives stay silent unless the embedding application wires a backend.
// The zap package provides the structured adapter; GoLogger is a dependency-free
// fallback on top of the standard library logger.
package log
