package shared

import (
	"github.com/google/uuid"
)

type localCell[T any] struct {
	value   T
	refs    int
	readers int
	writing bool
	id      uuid.UUID
	opts    *options
}

// Local is a Handle for cells confined to one goroutine.
//
// It takes no locks and has no poisoned state. Nested access through aliasing
// handles is checked at run time: a Write while any Read or Write is active,
// or a Read while a Write is active, returns ErrBorrowConflict.
type Local[T any] struct {
	cell     *localCell[T]
	released bool
}

var _ Handle[int] = (*Local[int])(nil)

// NewLocal stores value in a new single-goroutine cell.
func NewLocal[T any](value T, opts ...Option) *Local[T] {
	return &Local[T]{
		cell: &localCell[T]{
			value: value,
			refs:  1,
			id:    newCellID(),
			opts:  newOptions(opts),
		},
	}
}

func (h *Local[T]) live() (*localCell[T], error) {
	if h == nil || h.released || h.cell == nil {
		return nil, ErrReleased
	}

	return h.cell, nil
}

// Read calls fn with a copy of the value.
func (h *Local[T]) Read(fn func(value T)) error {
	cell, err := h.live()
	if err != nil {
		return err
	}

	if cell.writing {
		return ErrBorrowConflict
	}

	cell.readers++
	defer func() { cell.readers-- }()

	fn(cell.value)

	return nil
}

// Write calls fn with a pointer to the value.
func (h *Local[T]) Write(fn func(value *T)) error {
	cell, err := h.live()
	if err != nil {
		return err
	}

	if cell.writing || cell.readers > 0 {
		return ErrBorrowConflict
	}

	cell.writing = true
	defer func() { cell.writing = false }()

	fn(&cell.value)

	return nil
}

// Clone returns a new handle to the same cell. Cloning a released handle
// returns another released handle.
//
//nolint:ireturn
func (h *Local[T]) Clone() Handle[T] {
	cell, err := h.live()
	if err != nil {
		var aliased *localCell[T]
		if h != nil {
			aliased = h.cell
		}

		return &Local[T]{cell: aliased, released: true}
	}

	cell.refs++

	return &Local[T]{cell: cell}
}

// Release drops this handle. Releasing the last handle while the cell is
// being accessed returns ErrBorrowConflict and leaves the handle live.
func (h *Local[T]) Release() error {
	cell, err := h.live()
	if err != nil {
		return err
	}

	if cell.refs == 1 && (cell.writing || cell.readers > 0) {
		return ErrBorrowConflict
	}

	h.released = true
	cell.refs--

	if cell.refs == 0 {
		value := cell.value

		var zero T
		cell.value = zero

		drop(cell.opts, cell.id, value)
	}

	return nil
}

// RefCount reports how many live handles reference the cell.
func (h *Local[T]) RefCount() int {
	if h == nil || h.cell == nil {
		return 0
	}

	return h.cell.refs
}

// ID returns the cell's id.
func (h *Local[T]) ID() uuid.UUID {
	if h == nil || h.cell == nil {
		return uuid.Nil
	}

	return h.cell.id
}
