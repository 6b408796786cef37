package iterators

import (
	"context"
	"errors"
	"iter"
	"slices"

	"github.com/ARCJ137442/NAR-dev-util/devutil/assert"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/RoaringBitmap/roaring"
)

var (
	// ErrNoRoots is returned when a traversal is built without roots.
	ErrNoRoots = errors.New("iterators: breadth-first traversal needs at least one root")
	// ErrNilSuccessors is returned when a traversal is built without a successors function.
	ErrNilSuccessors = errors.New("iterators: successors function is nil")
	// ErrNilKey is returned by NewBreadthFirstFunc without a key function.
	ErrNilKey = errors.New("iterators: key function is nil")
)

// Successors maps a node to the nodes directly reachable from it. A nil
// sequence marks a leaf.
type Successors[N any] func(node N) iter.Seq[N]

// SliceSuccessors adapts a successors function returning a slice.
func SliceSuccessors[N any](fn func(node N) []N) Successors[N] {
	if fn == nil {
		return nil
	}

	return func(node N) iter.Seq[N] {
		return slices.Values(fn(node))
	}
}

// visitedSet records every node ever discovered.
type visitedSet[N any] interface {
	// add marks node and reports whether it was new.
	add(node N) bool
	len() int
}

type keyedSet[N any, K comparable] struct {
	key  func(N) K
	seen map[K]struct{}
}

func (s *keyedSet[N, K]) add(node N) bool {
	k := s.key(node)
	if _, ok := s.seen[k]; ok {
		return false
	}

	s.seen[k] = struct{}{}

	return true
}

func (s *keyedSet[N, K]) len() int {
	return len(s.seen)
}

type bitmapSet struct {
	bitmap *roaring.Bitmap
}

func (s *bitmapSet) add(node uint32) bool {
	return s.bitmap.CheckedAdd(node)
}

func (s *bitmapSet) len() int {
	return int(s.bitmap.GetCardinality())
}

// BFSOption configures a breadth-first traversal.
type BFSOption func(*bfsOptions)

type bfsOptions struct {
	ctx    context.Context
	logger log.Logger
}

// WithLogger sets the logger used for construction failures and exhaustion.
func WithLogger(logger log.Logger) BFSOption {
	return func(o *bfsOptions) {
		o.logger = logger
	}
}

// WithContext correlates the traversal's log entries and assertion events with ctx.
func WithContext(ctx context.Context) BFSOption {
	return func(o *bfsOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// BreadthFirst yields every node reachable from its roots exactly once, in
// breadth-first order.
//
// Nodes are marked visited when discovered, so the frontier never holds a
// node twice and each node is reached through the first path that finds it.
// Ties keep the order of roots and of each successors sequence. On a cyclic
// graph the traversal still ends once every reachable node was yielded; on
// an infinite graph it never ends.
type BreadthFirst[N any] struct {
	frontier ring[N]
	visited  visitedSet[N]
	succ     Successors[N]
	opts     bfsOptions
	yielded  int
	done     bool
}

// NewBreadthFirst traverses comparable nodes, identified with ==.
func NewBreadthFirst[N comparable](roots []N, succ Successors[N], opts ...BFSOption) (*BreadthFirst[N], error) {
	return NewBreadthFirstFunc(roots, succ, func(node N) N { return node }, opts...)
}

// NewBreadthFirstFunc traverses nodes identified by key. Two nodes with the
// same key are the same node.
func NewBreadthFirstFunc[N any, K comparable](
	roots []N,
	succ Successors[N],
	key func(node N) K,
	opts ...BFSOption,
) (*BreadthFirst[N], error) {
	o := resolveBFSOptions(opts)

	if err := o.asserter().NotNil(o.ctx, key, ErrNilKey.Error()); err != nil {
		return nil, errors.Join(ErrNilKey, err)
	}

	return newBreadthFirst(roots, succ, &keyedSet[N, K]{key: key, seen: make(map[K]struct{})}, o)
}

// NewIndexedBreadthFirst traverses nodes named by uint32 indexes, such as
// positions in an arena. Visited nodes are kept in a compressed bitmap.
func NewIndexedBreadthFirst(roots []uint32, succ Successors[uint32], opts ...BFSOption) (*BreadthFirst[uint32], error) {
	return newBreadthFirst(roots, succ, &bitmapSet{bitmap: roaring.New()}, resolveBFSOptions(opts))
}

func resolveBFSOptions(opts []BFSOption) bfsOptions {
	o := bfsOptions{ctx: context.Background()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	o.logger = log.OrNop(o.logger)

	return o
}

func (o bfsOptions) asserter() *assert.Asserter {
	return assert.New(o.ctx, o.logger, "iterators", "breadth_first")
}

func newBreadthFirst[N any](roots []N, succ Successors[N], visited visitedSet[N], o bfsOptions) (*BreadthFirst[N], error) {
	asserter := o.asserter()

	if err := asserter.That(o.ctx, len(roots) > 0, ErrNoRoots.Error()); err != nil {
		return nil, errors.Join(ErrNoRoots, err)
	}

	if err := asserter.NotNil(o.ctx, succ, ErrNilSuccessors.Error()); err != nil {
		return nil, errors.Join(ErrNilSuccessors, err)
	}

	b := &BreadthFirst[N]{visited: visited, succ: succ, opts: o}

	for _, root := range roots {
		if visited.add(root) {
			b.frontier.PushBack(root)
		}
	}

	return b, nil
}

// Next yields the next node and enqueues its undiscovered successors.
func (b *BreadthFirst[N]) Next() (N, bool) {
	node, ok := b.frontier.PopFront()
	if !ok {
		if !b.done {
			b.done = true
			b.opts.logger.Log(b.opts.ctx, log.LevelDebug, "breadth-first traversal exhausted",
				log.Int("visited", b.visited.len()))
		}

		return node, false
	}

	if seq := b.succ(node); seq != nil {
		for successor := range seq {
			if b.visited.add(successor) {
				b.frontier.PushBack(successor)
			}
		}
	}

	b.yielded++

	return node, true
}

// All yields the remaining nodes.
func (b *BreadthFirst[N]) All() iter.Seq[N] {
	return func(yield func(N) bool) {
		for {
			node, ok := b.Next()
			if !ok || !yield(node) {
				return
			}
		}
	}
}

// Frontier returns the number of discovered nodes not yet yielded.
func (b *BreadthFirst[N]) Frontier() int {
	return b.frontier.Len()
}

// Visited returns the number of nodes discovered so far, yielded or not.
func (b *BreadthFirst[N]) Visited() int {
	return b.visited.len()
}

// Yielded returns the number of nodes returned by Next.
func (b *BreadthFirst[N]) Yielded() int {
	return b.yielded
}
