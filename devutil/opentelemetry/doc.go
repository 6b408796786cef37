// Package opentelemetry bootstraps the tracer and meter providers used by the
// devutil packages and wires them into panic, assertion, and handle metrics.
//
// Exporters are supplied by the caller, so the package carries no transport.
package opentelemetry
