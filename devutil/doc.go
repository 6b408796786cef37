// Package devutil holds process-level helpers shared by the devutil packages:
// environment-driven configuration and the tracking bundle (logger, tracer,
// metrics factory) carried on a context.Context.
//
// Typical setup at process start:
//
//	logger, _ := devutil.ConfigureFromEnv()
//	ctx = devutil.ContextWithLogger(ctx, logger)
//
// The data-structure packages live in subpackages: shared for reference
// handles over one cell and iterators for buffered and breadth-first
// traversal.
package devutil
