//go:build unit

package iterators

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/ARCJ137442/NAR-dev-util/devutil/assert"
	devzap "github.com/ARCJ137442/NAR-dev-util/devutil/zap"
	"github.com/google/go-cmp/cmp"
	testifyassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func graph[N comparable](edges map[N][]N) Successors[N] {
	return SliceSuccessors(func(node N) []N { return edges[node] })
}

func TestBreadthFirst_Order(t *testing.T) {
	t.Parallel()

	countdown := func(n int) []int {
		switch n {
		case 0:
			return nil
		case 1:
			return []int{0}
		default:
			return []int{n - 1, n - 2}
		}
	}

	tests := []struct {
		name  string
		roots []string
		edges map[string][]string
		want  []string
	}{
		{
			name:  "diamond",
			roots: []string{"A"},
			edges: map[string][]string{"A": {"B", "C"}, "B": {"C", "D"}},
			want:  []string{"A", "B", "C", "D"},
		},
		{
			name:  "cycle",
			roots: []string{"A"},
			edges: map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"A"}},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "self loop",
			roots: []string{"A"},
			edges: map[string][]string{"A": {"A"}},
			want:  []string{"A"},
		},
		{
			name:  "duplicate roots",
			roots: []string{"A", "B", "A"},
			edges: map[string][]string{"A": {"C"}, "B": {"A"}},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "root reachable from another root",
			roots: []string{"A", "C"},
			edges: map[string][]string{"A": {"B", "C"}, "C": {"D"}},
			want:  []string{"A", "C", "B", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBreadthFirst(tt.roots, graph(tt.edges))
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, slices.Collect(b.All())); diff != "" {
				t.Fatalf("traversal mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("countdown from several roots", func(t *testing.T) {
		t.Parallel()

		b, err := NewBreadthFirst([]int{10, 9, 8}, SliceSuccessors(countdown))
		require.NoError(t, err)

		want := []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
		if diff := cmp.Diff(want, slices.Collect(b.All())); diff != "" {
			t.Fatalf("traversal mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBreadthFirst_LazyExpansion(t *testing.T) {
	t.Parallel()

	expanded := map[int]int{}
	succ := func(n int) iter.Seq[int] {
		expanded[n]++
		return slices.Values([]int{n + 1, n + 2})
	}

	// An infinite graph is fine as long as the caller stops.
	b, err := NewBreadthFirst([]int{0}, succ)
	require.NoError(t, err)

	var got []int
	for n := range b.All() {
		got = append(got, n)
		if len(got) == 5 {
			break
		}
	}

	testifyassert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	testifyassert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1}, expanded)
	testifyassert.Equal(t, 2, b.Frontier())
	testifyassert.Equal(t, 7, b.Visited())
	testifyassert.Equal(t, 5, b.Yielded())
}

func TestBreadthFirst_NilSuccessorsAtLeaf(t *testing.T) {
	t.Parallel()

	succ := func(n int) iter.Seq[int] {
		if n == 0 {
			return slices.Values([]int{1})
		}

		return nil
	}

	b, err := NewBreadthFirst([]int{0}, succ)
	require.NoError(t, err)

	testifyassert.Equal(t, []int{0, 1}, slices.Collect(b.All()))
	testifyassert.Equal(t, 2, b.Yielded())
}

func TestBreadthFirst_Validation(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := devzap.Wrap(zap.New(core))

	_, err := NewBreadthFirst([]string{}, graph(map[string][]string{}), WithLogger(logger))
	require.ErrorIs(t, err, ErrNoRoots)
	require.ErrorIs(t, err, assert.ErrAssertionFailed)

	var assertionErr *assert.AssertionError
	require.True(t, errors.As(err, &assertionErr))
	testifyassert.Equal(t, "breadth_first", assertionErr.Operation)

	_, err = NewBreadthFirst([]string{"A"}, nil)
	require.ErrorIs(t, err, ErrNilSuccessors)

	_, err = NewBreadthFirstFunc[string, string]([]string{"A"}, graph(map[string][]string{}), nil)
	require.ErrorIs(t, err, ErrNilKey)

	_, err = NewIndexedBreadthFirst(nil, nil)
	require.ErrorIs(t, err, ErrNoRoots)

	testifyassert.Equal(t, 1, logs.FilterMessageSnippet("assertion failed").Len())
}

type node struct {
	ID    string
	Edges []string
}

func TestBreadthFirstFunc_KeyedNodes(t *testing.T) {
	t.Parallel()

	nodes := map[string]node{
		"a": {ID: "a", Edges: []string{"b", "c"}},
		"b": {ID: "b", Edges: []string{"a", "c"}},
		"c": {ID: "c"},
	}

	succ := SliceSuccessors(func(n node) []node {
		out := make([]node, 0, len(n.Edges))
		for _, id := range n.Edges {
			out = append(out, nodes[id])
		}

		return out
	})

	b, err := NewBreadthFirstFunc([]node{nodes["a"]}, succ, func(n node) string { return n.ID })
	require.NoError(t, err)

	var ids []string
	for n := range b.All() {
		ids = append(ids, n.ID)
	}

	testifyassert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestBreadthFirst_PointerIdentity(t *testing.T) {
	t.Parallel()

	type vertex struct {
		name string
		next []*vertex
	}

	a, b1, b2 := &vertex{name: "a"}, &vertex{name: "b"}, &vertex{name: "b"}
	a.next = []*vertex{b1, b2, b1}

	bfs, err := NewBreadthFirst([]*vertex{a}, SliceSuccessors(func(v *vertex) []*vertex { return v.next }))
	require.NoError(t, err)

	// Equal-looking vertices are still distinct nodes.
	testifyassert.Len(t, slices.Collect(bfs.All()), 3)
}

func TestIndexedBreadthFirst(t *testing.T) {
	t.Parallel()

	// Arena of nodes addressed by index: i -> 2i+1, 2i+2 within bounds, plus a back edge to 0.
	const size = 1000

	succ := SliceSuccessors(func(i uint32) []uint32 {
		out := []uint32{0}
		for _, child := range []uint32{2*i + 1, 2*i + 2} {
			if child < size {
				out = append(out, child)
			}
		}

		return out
	})

	b, err := NewIndexedBreadthFirst([]uint32{0, 0}, succ, WithContext(context.Background()))
	require.NoError(t, err)

	got := slices.Collect(b.All())
	require.Len(t, got, size)

	for i, n := range got {
		require.Equal(t, uint32(i), n, "level order of a complete binary tree is index order")
	}

	testifyassert.Equal(t, size, b.Visited())
	testifyassert.Equal(t, 0, b.Frontier())
}

func TestBreadthFirst_LogsExhaustionOnce(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	b, err := NewBreadthFirst([]int{1}, graph(map[int][]int{}), WithLogger(devzap.Wrap(zap.New(core))))
	require.NoError(t, err)

	_ = slices.Collect(b.All())
	_, ok := b.Next()
	require.False(t, ok)

	testifyassert.Equal(t, 1, logs.FilterMessage("breadth-first traversal exhausted").Len())
}
