package iterators

import (
	"iter"
)

// FromFunc turns a generator reporting exhaustion with false into a sequence.
// next is called again for every element, so a generator that never returns
// false produces an infinite sequence.
func FromFunc[T any](next func() (T, bool)) iter.Seq[T] {
	return func(yield func(T) bool) {
		if next == nil {
			return
		}

		for {
			item, ok := next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}
