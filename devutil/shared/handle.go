package shared

import (
	"github.com/ARCJ137442/NAR-dev-util/devutil/assert"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
	"github.com/google/uuid"
)

// Handle is a cloneable reference to one shared cell.
type Handle[T any] interface {
	// Read calls fn with the current value. fn must not retain pointers into it.
	Read(fn func(value T)) error
	// Write calls fn with exclusive access to the value.
	Write(fn func(value *T)) error
	// Clone returns a new handle to the same cell.
	Clone() Handle[T]
	// Release drops this handle. The value is destroyed when the last handle
	// is released. Release must not be called from inside Read or Write on
	// the same cell.
	Release() error
	// RefCount reports how many live handles reference the cell.
	RefCount() int
}

// Recoverable is implemented by handles whose cells can be poisoned.
type Recoverable[T any] interface {
	Handle[T]
	IsPoisoned() bool
	// Repair calls fn with exclusive access even when the cell is poisoned.
	// The poison is cleared when fn returns nil.
	Repair(fn func(value *T) error) error
}

// WithRef runs fn under Read and returns its result.
func WithRef[T, R any](h Handle[T], fn func(value T) R) (R, error) {
	var out R

	err := h.Read(func(value T) {
		out = fn(value)
	})

	return out, err
}

// WithMut runs fn under Write and returns its result.
func WithMut[T, R any](h Handle[T], fn func(value *T) R) (R, error) {
	var out R

	err := h.Write(func(value *T) {
		out = fn(value)
	})

	return out, err
}

// Strategy selects the Handle implementation created by Wrap.
type Strategy int

const (
	// SingleThreaded creates Local handles.
	SingleThreaded Strategy = iota
	// MultiThreaded creates Guarded handles.
	MultiThreaded
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case SingleThreaded:
		return "SingleThreaded"
	case MultiThreaded:
		return "MultiThreaded"
	default:
		return "Unknown"
	}
}

// Wrap stores value in a new cell and returns its first handle.
// An unknown strategy falls back to MultiThreaded.
//
//nolint:ireturn
func Wrap[T any](strategy Strategy, value T, opts ...Option) Handle[T] {
	if strategy == SingleThreaded {
		return NewLocal(value, opts...)
	}

	h := NewGuarded(value, opts...)
	if strategy != MultiThreaded {
		o := h.cell.opts
		_ = assert.New(o.ctx, o.logger, "shared", "wrap").
			Never(o.ctx, "unknown strategy, using MultiThreaded", "strategy", int(strategy))
	}

	return h
}

// Factory wraps values with a strategy chosen when the factory was built.
type Factory[T any] func(value T) Handle[T]

// FactoryFor returns a Factory applying strategy and opts to every value.
func FactoryFor[T any](strategy Strategy, opts ...Option) Factory[T] {
	return func(value T) Handle[T] {
		return Wrap(strategy, value, opts...)
	}
}

// newCellID returns a time-ordered id, falling back to a random one.
func newCellID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// drop hands value to the drop hook, applying the cell's panic policy to a panicking hook.
func drop[T any](o *options, id uuid.UUID, value T) {
	fn := dropHook[T](o)

	if fn != nil {
		func() {
			defer runtime.RecoverWithPolicyAndContext(o.ctx, o.logger, defaultName, o.name+".drop", o.policy)

			fn(value)
		}()
	}

	o.logger.Log(o.ctx, log.LevelDebug, "shared cell dropped",
		log.String("handle", o.name),
		log.String("cell_id", id.String()))
}
