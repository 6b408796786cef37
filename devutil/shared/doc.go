// Package shared provides reference handles over a single mutable cell.
//
// A Handle is cheap to clone: every clone aliases the same cell and bumps its
// reference count. Access is scoped, through Read and Write closures, so no
// reference to the cell outlives the call. Release drops one handle; the
// cell's value is destroyed when the last handle is released.
//
// Two strategies implement Handle:
//
//   - Local is for cells confined to one goroutine. It never locks and reports
//     a conflicting nested access as ErrBorrowConflict.
//   - Guarded is safe for concurrent use. Reads may overlap, writes are
//     exclusive, and a write that panics poisons the cell (see PoisonError).
//
// Generic code that should not care which one it gets can take a Factory:
//
//	newCounter := shared.FactoryFor[int](shared.MultiThreaded)
//	h := newCounter(0)
//	_ = h.Write(func(v *int) { *v++ })
package shared
