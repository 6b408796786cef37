package iterators

import (
	"iter"
)

// Buffered is an iterator with an unbounded look-ahead buffer.
//
// Elements are pulled from the source at most once and only when needed.
// Pending elements come out in source order, with pushed-back elements in
// front of them.
type Buffered[T any] struct {
	next   func() (T, bool)
	stop   func()
	buffer ring[T]
	head   int
	began  bool
	ended  bool
}

// NewBuffered buffers seq. Call Close when abandoning the iterator before
// the sequence is exhausted. A nil seq is empty.
func NewBuffered[T any](seq iter.Seq[T]) *Buffered[T] {
	if seq == nil {
		return NewBufferedFunc[T](nil)
	}

	next, stop := iter.Pull(seq)

	return &Buffered[T]{next: next, stop: stop}
}

// NewBufferedFunc buffers a source that reports exhaustion by returning false.
// A nil next is empty.
func NewBufferedFunc[T any](next func() (T, bool)) *Buffered[T] {
	b := &Buffered[T]{next: next, stop: func() {}}
	if next == nil {
		b.next = func() (T, bool) {
			var zero T
			return zero, false
		}
	}

	return b
}

// Close releases the source. Buffered elements stay available.
func (b *Buffered[T]) Close() {
	b.stop()
	b.ended = true
}

// Next returns the first pending element, pulling from the source only when
// the buffer is empty.
func (b *Buffered[T]) Next() (T, bool) {
	if b.buffer.Len() == 0 {
		b.Pull()
	}

	return b.buffer.PopFront()
}

// Peek returns the k-th pending element without consuming it, so Peek(1) is
// what Next would return. It pulls at most k-Len() elements and returns false
// for k < 1 or when the source ends first. Peek blocks for as long as the
// source takes to produce them; there is no cap on k.
func (b *Buffered[T]) Peek(k int) (T, bool) {
	var zero T
	if k < 1 {
		return zero, false
	}

	if !b.Fill(k - b.buffer.Len()) {
		return zero, false
	}

	return b.buffer.At(k - 1), true
}

// PushBack makes item the next element returned by Next.
func (b *Buffered[T]) PushBack(item T) {
	b.buffer.PushFront(item)
}

// Pull moves one element from the source to the back of the buffer and
// returns it. It returns false once the source is exhausted.
func (b *Buffered[T]) Pull() (T, bool) {
	var zero T
	if b.ended {
		return zero, false
	}

	item, ok := b.next()
	if !ok {
		b.ended = true
		b.stop()

		return zero, false
	}

	if b.began {
		b.head++
	}

	b.began = true
	b.buffer.PushBack(item)

	return item, true
}

// Fill pulls n elements, reporting whether all of them arrived.
func (b *Buffered[T]) Fill(n int) bool {
	for range max(n, 0) {
		if _, ok := b.Pull(); !ok {
			return false
		}
	}

	return true
}

// Len returns the number of buffered elements.
func (b *Buffered[T]) Len() int {
	return b.buffer.Len()
}

// Began reports whether any element has been pulled from the source.
func (b *Buffered[T]) Began() bool {
	return b.began
}

// Ended reports whether the source is known to be exhausted.
func (b *Buffered[T]) Ended() bool {
	return b.ended
}

// Head returns the source index of the last pulled element, or 0 before the
// first pull.
func (b *Buffered[T]) Head() int {
	return b.head
}

// Front returns the next pending element without pulling.
func (b *Buffered[T]) Front() (T, bool) {
	return b.buffer.Front()
}

// Back returns the last buffered element without pulling.
func (b *Buffered[T]) Back() (T, bool) {
	return b.buffer.Back()
}

// Clear discards every buffered element.
func (b *Buffered[T]) Clear() {
	b.buffer.Clear()
}

// Drain removes the buffered elements in order, passing each to fn.
// It never pulls from the source.
func (b *Buffered[T]) Drain(fn func(item T)) {
	for b.buffer.Len() > 0 {
		item, _ := b.buffer.PopFront()
		fn(item)
	}
}

// Buffer yields the buffered elements without consuming them.
func (b *Buffered[T]) Buffer() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range b.buffer.Len() {
			if !yield(b.buffer.At(i)) {
				return
			}
		}
	}
}

// All yields and consumes every remaining element.
func (b *Buffered[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := b.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}
