package iterators

const minRingCapacity = 8

// ring is a growable double-ended queue over a circular slice.
type ring[T any] struct {
	items []T
	head  int
	size  int
}

func (r *ring[T]) Len() int {
	return r.size
}

func (r *ring[T]) grow() {
	if r.size < len(r.items) {
		return
	}

	capacity := max(minRingCapacity, len(r.items)*2)
	items := make([]T, capacity)

	for i := range r.size {
		items[i] = r.items[(r.head+i)%len(r.items)]
	}

	r.items = items
	r.head = 0
}

func (r *ring[T]) PushBack(item T) {
	r.grow()
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
}

func (r *ring[T]) PushFront(item T) {
	r.grow()
	r.head = (r.head - 1 + len(r.items)) % len(r.items)
	r.items[r.head] = item
	r.size++
}

func (r *ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--

	return item, true
}

// At returns the i-th element from the front. i must be in [0, Len()).
func (r *ring[T]) At(i int) T {
	return r.items[(r.head+i)%len(r.items)]
}

func (r *ring[T]) Front() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}

	return r.At(0), true
}

func (r *ring[T]) Back() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}

	return r.At(r.size - 1), true
}

func (r *ring[T]) Clear() {
	clear(r.items)
	r.head = 0
	r.size = 0
}
