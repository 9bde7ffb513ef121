// Package ring implements the single-producer/single-consumer lock-free
// input ring that lets a UI thread deliver brush events without blocking
// a running tick: a write head, a read head, an overflow flag, and a
// fixed array of four-slot events, expressed as plain Go atomics rather
// than an actual mapped memory region — the engine package is always the
// sole consumer and the host shell is always the sole producer.
package ring

import "sync/atomic"

// Event type codes.
const (
	TypeNone      int32 = 0
	TypeEndStroke int32 = 1
	// TypeBrushOffset is added to an element ID to form the type code of
	// a brush-add event; any type ≥ this offset carries
	// (type - TypeBrushOffset) as the element ID to paint.
	TypeBrushOffset int32 = 2
)

// Event is one queued input event: an (x, y) grid coordinate, a type
// code, and a free-form value slot (brush radius, shape selector, and
// so on depending on type).
type Event struct {
	X, Y, Type, Value int32
}

// Ring is the SPSC event ring. Capacity is fixed at construction; New
// raises a capacity below 1 to 1 and otherwise uses it as given. Push must be
// called from exactly one producer goroutine; Drain from exactly one
// consumer goroutine (the engine, once per tick).
type Ring struct {
	buf      []Event
	capacity uint32

	writeHead atomic.Uint32
	readHead  atomic.Uint32
	overflow  atomic.Bool
}

// New constructs a ring of capacity slots. One slot always stays free to
// tell a full ring from an empty one, so at most capacity-1 events are
// queued at once.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{
		buf:      make([]Event, capacity),
		capacity: uint32(capacity),
	}
}

// Push appends an event to the ring. If the ring is full — the next
// write index would collide with the current read index — the event is
// dropped and the overflow flag is set instead.
func (r *Ring) Push(e Event) {
	w := r.writeHead.Load()
	next := (w + 1) % r.capacity
	if next == r.readHead.Load() {
		r.overflow.Store(true)
		return
	}
	r.buf[w] = e
	r.writeHead.Store(next)
}

// PushBrush is a convenience wrapper encoding a brush-add event with the
// TypeBrushOffset convention.
func (r *Ring) PushBrush(x, y int32, elementID uint8, value int32) {
	r.Push(Event{X: x, Y: y, Type: TypeBrushOffset + int32(elementID), Value: value})
}

// PushEndStroke enqueues the end-of-stroke sentinel.
func (r *Ring) PushEndStroke() {
	r.Push(Event{Type: TypeEndStroke})
}

// TakeOverflow reads and clears the overflow flag.
func (r *Ring) TakeOverflow() bool {
	return r.overflow.Swap(false)
}

// Drain consumes every event enqueued up to the current write head,
// calling fn for each in FIFO order, and advances the read head past
// them. Must be called by the single consumer only.
func (r *Ring) Drain(fn func(Event)) {
	w := r.writeHead.Load()
	read := r.readHead.Load()
	for read != w {
		fn(r.buf[read])
		read = (read + 1) % r.capacity
	}
	r.readHead.Store(read)
}
