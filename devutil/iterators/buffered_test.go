//go:build unit

package iterators

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource yields items and records how many were pulled.
func countingSource[T any](items []T, pulled *int) func() (T, bool) {
	return func() (T, bool) {
		if *pulled >= len(items) {
			var zero T
			return zero, false
		}

		item := items[*pulled]
		*pulled++

		return item, true
	}
}

func TestBuffered_PeekThenNext(t *testing.T) {
	t.Parallel()

	pulled := 0
	b := NewBufferedFunc(countingSource([]int{1, 2, 3}, &pulled))

	got, ok := b.Peek(2)
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, pulled)

	for _, want := range []int{1, 2, 3} {
		got, ok := b.Next()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok = b.Next()
	assert.False(t, ok)
	assert.Equal(t, 3, pulled, "each source element is pulled once")
}

func TestBuffered_Peek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		k          int
		want       int
		wantOK     bool
		wantPulled int
	}{
		{name: "first", k: 1, want: 10, wantOK: true, wantPulled: 1},
		{name: "last", k: 3, want: 30, wantOK: true, wantPulled: 3},
		{name: "past end", k: 4, wantOK: false, wantPulled: 3},
		{name: "zero", k: 0, wantOK: false, wantPulled: 0},
		{name: "negative", k: -2, wantOK: false, wantPulled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pulled := 0
			b := NewBufferedFunc(countingSource([]int{10, 20, 30}, &pulled))

			got, ok := b.Peek(tt.k)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPulled, pulled)

			// Peeking again never pulls more.
			_, _ = b.Peek(tt.k)
			assert.Equal(t, tt.wantPulled, pulled)
		})
	}
}

func TestBuffered_PushBack(t *testing.T) {
	t.Parallel()

	b := NewBuffered(slices.Values([]string{"b", "c"}))

	first, _ := b.Next()
	require.Equal(t, "b", first)

	b.PushBack("b")
	b.PushBack("a")

	peeked, ok := b.Peek(1)
	require.True(t, ok)
	assert.Equal(t, "a", peeked)

	got := slices.Collect(b.All())
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestBuffered_PushBackAfterEnd(t *testing.T) {
	t.Parallel()

	b := NewBuffered(slices.Values([]int{}))

	_, ok := b.Next()
	require.False(t, ok)
	require.True(t, b.Ended())

	b.PushBack(9)

	got, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, 9, got)
}

func TestBuffered_HeadAndState(t *testing.T) {
	t.Parallel()

	b := NewBuffered(slices.Values([]rune("abc")))
	assert.False(t, b.Began())
	assert.Equal(t, 0, b.Head())

	_, _ = b.Pull()
	assert.True(t, b.Began())
	assert.Equal(t, 0, b.Head())

	assert.True(t, b.Fill(2))
	assert.Equal(t, 2, b.Head())
	assert.False(t, b.Ended())

	assert.False(t, b.Fill(1))
	assert.True(t, b.Ended())

	front, _ := b.Front()
	back, _ := b.Back()
	assert.Equal(t, 'a', front)
	assert.Equal(t, 'c', back)
	assert.Equal(t, []rune("abc"), slices.Collect(b.Buffer()))
	assert.Equal(t, 3, b.Len(), "Buffer does not consume")

	var drained []rune
	b.Drain(func(r rune) { drained = append(drained, r) })
	assert.Equal(t, []rune("abc"), drained)
	assert.Equal(t, 0, b.Len())
}

func TestBuffered_Clear(t *testing.T) {
	t.Parallel()

	b := NewBuffered(slices.Values([]int{1, 2, 3}))
	require.True(t, b.Fill(2))

	b.Clear()
	assert.Equal(t, 0, b.Len())

	got, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestBuffered_CloseStopsSource(t *testing.T) {
	t.Parallel()

	stopped := false
	seq := func(yield func(int) bool) {
		defer func() { stopped = true }()

		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}

	b := NewBuffered(seq)
	_, ok := b.Peek(2)
	require.True(t, ok)

	b.Close()
	assert.True(t, stopped)
	assert.True(t, b.Ended())

	// Buffered elements survive Close.
	assert.Equal(t, []int{0, 1}, slices.Collect(b.All()))
}

func TestBuffered_NilSources(t *testing.T) {
	t.Parallel()

	_, ok := NewBuffered[int](nil).Next()
	assert.False(t, ok)

	_, ok = NewBufferedFunc[int](nil).Peek(1)
	assert.False(t, ok)
}

func TestBuffered_AllStopsEarly(t *testing.T) {
	t.Parallel()

	b := NewBuffered(slices.Values([]int{1, 2, 3}))

	for v := range b.All() {
		if v == 2 {
			break
		}
	}

	got, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, 3, got)
}
