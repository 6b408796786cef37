package iterators

import (
	"strings"
)

// StartsWith reports whether the pending elements begin with pattern,
// pulling only as far as needed to decide.
func StartsWith[T comparable](b *Buffered[T], pattern ...T) bool {
	return StartsWithAt(b, 0, pattern...)
}

// StartsWithAt is StartsWith for the pending elements from offset on.
// A negative offset never matches.
func StartsWithAt[T comparable](b *Buffered[T], offset int, pattern ...T) bool {
	if offset < 0 {
		return false
	}

	for i, want := range pattern {
		got, ok := b.Peek(offset + i + 1)
		if !ok || got != want {
			return false
		}
	}

	return true
}

// FindPrefix returns the first offset at which pattern occurs in the pending
// elements, pulling until it is found or the source ends.
func FindPrefix[T comparable](b *Buffered[T], pattern ...T) (int, bool) {
	for offset := 0; ; offset++ {
		if len(pattern) > 0 {
			if _, ok := b.Peek(offset + len(pattern)); !ok {
				return 0, false
			}
		}

		if StartsWithAt(b, offset, pattern...) {
			return offset, true
		}
	}
}

// SkipPrefix consumes pattern when the pending elements start with it.
func SkipPrefix[T comparable](b *Buffered[T], pattern ...T) bool {
	if !StartsWith(b, pattern...) {
		return false
	}

	for range pattern {
		b.Next()
	}

	return true
}

// TakeString removes up to n buffered runes and returns them as a string.
// It never pulls from the source.
func TakeString(b *Buffered[rune], n int) string {
	var sb strings.Builder

	for range min(max(n, 0), b.Len()) {
		r, _ := b.buffer.PopFront()
		sb.WriteRune(r)
	}

	return sb.String()
}

// DrainString removes every buffered rune and returns them as a string.
func DrainString(b *Buffered[rune]) string {
	return TakeString(b, b.Len())
}
