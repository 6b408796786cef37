package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrReleased is returned by every operation on a handle after its Release.
	ErrReleased = errors.New("shared: handle released")
	// ErrBorrowConflict is returned by Local when an access would overlap a
	// conflicting access to the same cell.
	ErrBorrowConflict = errors.New("shared: conflicting borrow")
	// ErrPoisonedState is wrapped by every *PoisonError.
	ErrPoisonedState = errors.New("shared: poisoned state")
)

// PoisonError reports that a previous Write on a guarded cell did not complete.
// The cell's value may be partially updated.
type PoisonError struct {
	// CellID identifies the poisoned cell.
	CellID uuid.UUID
	// Name is the cell's WithName label.
	Name string
	// Value is what the interrupted write panicked with. It is errGoexit when
	// the writing goroutine called runtime.Goexit.
	Value any
	// Stack is the stack of the interrupted write. Empty in production mode.
	Stack []byte
}

func (e *PoisonError) Error() string {
	return fmt.Sprintf("shared: cell %s (%s) poisoned by interrupted write: %v", e.CellID, e.Name, e.Value)
}

// Unwrap returns ErrPoisonedState.
func (e *PoisonError) Unwrap() error {
	return ErrPoisonedState
}

var errGoexit = errors.New("goroutine exited inside write")
