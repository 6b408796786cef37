// Package constant provides shared constant values used across the library.
//
// Keep this package free of runtime behavior.
// It holds telemetry names used by runtime, assert, and shared so that metric
// and span event names stay identical across packages.
package constant
