// Package runtime turns recovered panics into observable events.
//
// A recovered panic is logged with its stack, counted in
// panic_recovered_total, recorded as a span event on the active span, and
// forwarded to an optional ErrorReporter. PanicPolicy decides whether the
// caller keeps running or the panic is re-raised afterwards.
//
// Production mode (SetProductionMode) redacts panic values and stacks from
// every sink except the local log.
package runtime
