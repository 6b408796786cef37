package shared

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	constant "github.com/ARCJ137442/NAR-dev-util/devutil/constants"
	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/opentelemetry"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type guardedCell[T any] struct {
	mu    sync.RWMutex
	value T
	// poison is guarded by mu.
	poison *PoisonError
	refs   atomic.Int64
	id     uuid.UUID
	opts   *options
}

// Guarded is a Handle safe for concurrent use.
//
// Reads share the cell's guard and writes hold it exclusively. A Write whose
// closure panics or calls runtime.Goexit poisons the cell: later Read and
// Write calls on any aliasing handle return a *PoisonError until Repair
// succeeds. Each Guarded value is one holder's handle; clone it to share the
// cell with another goroutine.
type Guarded[T any] struct {
	cell     *guardedCell[T]
	released atomic.Bool
}

var _ Recoverable[int] = (*Guarded[int])(nil)

// NewGuarded stores value in a new concurrency-safe cell.
func NewGuarded[T any](value T, opts ...Option) *Guarded[T] {
	cell := &guardedCell[T]{
		value: value,
		id:    newCellID(),
		opts:  newOptions(opts),
	}
	cell.refs.Store(1)

	return &Guarded[T]{cell: cell}
}

func (h *Guarded[T]) live() (*guardedCell[T], error) {
	if h == nil || h.cell == nil || h.released.Load() {
		return nil, ErrReleased
	}

	return h.cell, nil
}

// Read calls fn with a copy of the value while holding the shared guard.
// A panic in fn releases the guard and propagates without poisoning.
func (h *Guarded[T]) Read(fn func(value T)) error {
	cell, err := h.live()
	if err != nil {
		return err
	}

	start := time.Now()

	cell.mu.RLock()
	defer cell.mu.RUnlock()

	cell.recordWait("read", start)

	if cell.poison != nil {
		return cell.poison
	}

	fn(cell.value)

	return nil
}

// Write calls fn with a pointer to the value while holding the exclusive guard.
//
// If fn panics the cell is poisoned and the guard released; the panic is then
// re-raised or returned as a *PoisonError depending on the panic policy.
// If fn calls runtime.Goexit the cell is poisoned and the goroutine exits.
func (h *Guarded[T]) Write(fn func(value *T)) (err error) {
	cell, err := h.live()
	if err != nil {
		return err
	}

	start := time.Now()

	cell.mu.Lock()
	cell.recordWait("write", start)

	if cell.poison != nil {
		poison := cell.poison
		cell.mu.Unlock()

		return poison
	}

	completed := false

	defer func() {
		if completed {
			cell.mu.Unlock()
			return
		}

		recovered := recover()

		cause := recovered
		if cause == nil {
			cause = errGoexit
		}

		poison := cell.poisonLocked(cause, debug.Stack())
		cell.mu.Unlock()

		cell.reportPoison(poison)

		if recovered != nil && cell.opts.policy == runtime.CrashProcess {
			panic(recovered)
		}

		err = poison
	}()

	fn(&cell.value)

	completed = true

	return nil
}

// IsPoisoned reports whether an interrupted Write left the cell poisoned.
func (h *Guarded[T]) IsPoisoned() bool {
	cell, err := h.live()
	if err != nil {
		return false
	}

	cell.mu.RLock()
	defer cell.mu.RUnlock()

	return cell.poison != nil
}

// Repair calls fn with exclusive access, ignoring the poisoned state.
// When fn returns nil the poison is cleared; otherwise fn's error is returned
// and the cell stays as it was. A panic in fn propagates and keeps the poison.
func (h *Guarded[T]) Repair(fn func(value *T) error) error {
	cell, err := h.live()
	if err != nil {
		return err
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()

	if err := fn(&cell.value); err != nil {
		return err
	}

	if cell.poison != nil {
		cell.poison = nil
		cell.reportRepair()
	}

	return nil
}

// Clone returns a new handle to the same cell. Cloning a released handle
// returns another released handle.
//
//nolint:ireturn
func (h *Guarded[T]) Clone() Handle[T] {
	cell, err := h.live()
	if err != nil || !cell.acquire() {
		clone := &Guarded[T]{}
		if h != nil {
			clone.cell = h.cell
		}

		clone.released.Store(true)

		return clone
	}

	return &Guarded[T]{cell: cell}
}

// acquire adds a reference unless the count already reached zero and the
// cell was dropped.
func (c *guardedCell[T]) acquire() bool {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return false
		}

		if c.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops this handle. The last release runs the drop hook under the
// exclusive guard and zeroes the value, even if the cell is poisoned.
func (h *Guarded[T]) Release() error {
	if h == nil || h.cell == nil || !h.released.CompareAndSwap(false, true) {
		return ErrReleased
	}

	cell := h.cell
	if cell.refs.Add(-1) != 0 {
		return nil
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()

	value := cell.value

	var zero T
	cell.value = zero

	drop(cell.opts, cell.id, value)

	return nil
}

// RefCount reports how many live handles reference the cell.
func (h *Guarded[T]) RefCount() int {
	if h == nil || h.cell == nil {
		return 0
	}

	return int(h.cell.refs.Load())
}

// ID returns the cell's id.
func (h *Guarded[T]) ID() uuid.UUID {
	if h == nil || h.cell == nil {
		return uuid.Nil
	}

	return h.cell.id
}

// poisonLocked marks the cell poisoned. Callers hold mu exclusively.
func (c *guardedCell[T]) poisonLocked(cause any, stack []byte) *PoisonError {
	if runtime.IsProductionMode() {
		stack = nil
	}

	c.poison = &PoisonError{
		CellID: c.id,
		Name:   c.opts.name,
		Value:  cause,
		Stack:  stack,
	}

	return c.poison
}

func (c *guardedCell[T]) reportPoison(poison *PoisonError) {
	o := c.opts

	runtime.HandlePanicValueWithStack(o.ctx, o.logger, poison.Value, poison.Stack, defaultName, o.name)

	opentelemetry.HandleSpanEvent(trace.SpanFromContext(o.ctx), constant.EventHandlePoisoned, c.spanAttributes()...)

	if o.factory != nil {
		if err := o.factory.RecordHandlePoisoned(o.ctx, o.name); err != nil {
			o.logger.Log(o.ctx, log.LevelWarn, "failed to record poisoned handle metric", log.Err(err))
		}
	}
}

func (c *guardedCell[T]) reportRepair() {
	o := c.opts

	o.logger.Log(o.ctx, log.LevelInfo, "shared cell repaired",
		log.String("handle", o.name),
		log.String("cell_id", c.id.String()))

	opentelemetry.HandleSpanEvent(trace.SpanFromContext(o.ctx), constant.EventHandleRepaired, c.spanAttributes()...)
}

func (c *guardedCell[T]) spanAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(constant.AttrPrefixHandle+"id", c.id.String()),
		attribute.String(constant.AttrPrefixHandle+"name", c.opts.name),
	}
}

func (c *guardedCell[T]) recordWait(mode string, start time.Time) {
	o := c.opts
	if o.factory == nil {
		return
	}

	if err := o.factory.RecordHandleLockWait(o.ctx, o.name, mode, time.Since(start)); err != nil {
		o.logger.Log(o.ctx, log.LevelWarn, "failed to record lock wait metric", log.Err(err))
	}
}
