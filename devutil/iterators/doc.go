// Package iterators provides lazy traversal helpers over Go 1.23 iterators.
//
// Buffered wraps a source sequence with a look-ahead buffer: elements can be
// peeked at any depth and pushed back without being lost. BreadthFirst walks
// a graph given only its roots and a successors function, yielding every
// reachable node exactly once in breadth-first order.
//
// Nothing in this package is safe for concurrent use.
package iterators
