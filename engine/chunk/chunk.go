// Package chunk implements the fixed-size tile partition that gates the
// sweep and the thermal pass: dirty tracking, sleep scheduling, and
// transitive wake-up. A chunk's liveness is tracked as a fixed-size,
// reused, index-addressed set of "is this slot doing anything" flags,
// walked every tick without reallocation.
package chunk

// Size is the fixed chunk side length in cells.
const Size = 32

// SleepAfterIdleTicks is the number of consecutive idle ticks before an
// Active chunk transitions to Sleeping.
const SleepAfterIdleTicks = 60

// State is one chunk's lifecycle state.
type State uint8

const (
	Empty State = iota
	Active
	Sleeping
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Active:
		return "active"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// LiveCounter is the minimal view of the grid the manager needs to decide
// Empty vs. Sleeping when a chunk goes idle: a count of live (non-empty)
// cells within a chunk-sized rectangle. Implemented by *grid.Grid, which
// World.Step passes to EndTick; kept as an interface so the chunk package has no dependency on
// engine/grid.
type LiveCounter interface {
	// CountLive returns the number of non-empty cells in [x0,x1)x[y0,y1).
	CountLive(x0, y0, x1, y1 int) int
}

// Manager partitions a width x height grid into Size x Size tiles and
// tracks each tile's dirty/sleep state.
type Manager struct {
	gridW, gridH int
	Cols, Rows   int

	state      []State
	idleTicks  []int
	dirtyThis  []bool
	dirtyEver  []bool // touched at least once since the last renderer upload
}

// New creates a manager for a width x height grid. All chunks start Empty.
func New(gridW, gridH int) *Manager {
	cols := (gridW + Size - 1) / Size
	rows := (gridH + Size - 1) / Size
	n := cols * rows
	return &Manager{
		gridW: gridW, gridH: gridH,
		Cols: cols, Rows: rows,
		state:     make([]State, n),
		idleTicks: make([]int, n),
		dirtyThis: make([]bool, n),
		dirtyEver: make([]bool, n),
	}
}

// chunkCoord converts cell coordinates to chunk coordinates.
func (m *Manager) chunkCoord(x, y int) (cx, cy int) { return x / Size, y / Size }

// chunkIndex converts chunk coordinates to the flat state-array index. Out
// of range chunk coordinates return -1.
func (m *Manager) chunkIndex(cx, cy int) int {
	if cx < 0 || cx >= m.Cols || cy < 0 || cy >= m.Rows {
		return -1
	}
	return cy*m.Cols + cx
}

// Bounds returns the cell-space rectangle [x0,y0,x1,y1) covered by chunk
// (cx, cy), clamped to the grid.
func (m *Manager) Bounds(cx, cy int) (x0, y0, x1, y1 int) {
	x0, y0 = cx*Size, cy*Size
	x1, y1 = x0+Size, y0+Size
	if x1 > m.gridW {
		x1 = m.gridW
	}
	if y1 > m.gridH {
		y1 = m.gridH
	}
	return
}

// State returns the current state of the chunk containing (x, y).
func (m *Manager) State(x, y int) State {
	cx, cy := m.chunkCoord(x, y)
	i := m.chunkIndex(cx, cy)
	if i < 0 {
		return Empty
	}
	return m.state[i]
}

// IsSleeping reports whether the chunk containing (x, y) is sleeping: the
// sweep and the thermal pass both skip sleeping chunks entirely.
func (m *Manager) IsSleeping(x, y int) bool { return m.State(x, y) == Sleeping }

// wake marks the chunk at (cx, cy) Active and resets its idle counter. A
// no-op for out-of-range coordinates.
func (m *Manager) wake(cx, cy int) {
	i := m.chunkIndex(cx, cy)
	if i < 0 {
		return
	}
	m.state[i] = Active
	m.idleTicks[i] = 0
	m.dirtyThis[i] = true
	m.dirtyEver[i] = true
}

// MarkDirty records that the cell at (x, y) changed: this wakes its chunk
// and every chunk sharing an edge with it, for the next tick.
func (m *Manager) MarkDirty(x, y int) {
	cx, cy := m.chunkCoord(x, y)
	m.wake(cx, cy)
	m.wake(cx-1, cy)
	m.wake(cx+1, cy)
	m.wake(cx, cy-1)
	m.wake(cx, cy+1)
}

// EndTick advances the idle/sleep bookkeeping after a tick's sweep and
// thermal pass have run. counter is consulted only for chunks that went
// idle this tick and are candidates to fall asleep, to decide whether the
// chunk has gone completely empty or is merely quiet.
func (m *Manager) EndTick(counter LiveCounter) {
	for cy := 0; cy < m.Rows; cy++ {
		for cx := 0; cx < m.Cols; cx++ {
			i := m.chunkIndex(cx, cy)
			if m.dirtyThis[i] {
				m.dirtyThis[i] = false
				continue
			}
			if m.state[i] != Active {
				continue
			}
			m.idleTicks[i]++
			if m.idleTicks[i] < SleepAfterIdleTicks {
				continue
			}
			x0, y0, x1, y1 := m.Bounds(cx, cy)
			if counter.CountLive(x0, y0, x1, y1) == 0 {
				m.state[i] = Empty
			} else {
				m.state[i] = Sleeping
			}
		}
	}
}

// ResetDirtyRect clears the "touched since last renderer upload" bits,
// returning the set of chunk indices that were dirty. Callers (a renderer
// consumer) use this to know which chunk rectangles to re-upload.
func (m *Manager) ResetDirtyRect() []int {
	var dirty []int
	for i, d := range m.dirtyEver {
		if d {
			dirty = append(dirty, i)
			m.dirtyEver[i] = false
		}
	}
	return dirty
}

// CountStates returns the number of chunks currently Active and currently
// Sleeping, for diagnostics reporting.
func (m *Manager) CountStates() (active, sleeping int) {
	for _, s := range m.state {
		switch s {
		case Active:
			active++
		case Sleeping:
			sleeping++
		}
	}
	return
}

// ForEachNonSleeping calls fn once per chunk that is not Sleeping, with its
// cell-space bounds. Used by the sweep scheduler and the thermal pass to
// skip sleeping tiles entirely.
func (m *Manager) ForEachNonSleeping(fn func(cx, cy, x0, y0, x1, y1 int)) {
	for cy := 0; cy < m.Rows; cy++ {
		for cx := 0; cx < m.Cols; cx++ {
			i := m.chunkIndex(cx, cy)
			if m.state[i] == Sleeping {
				continue
			}
			x0, y0, x1, y1 := m.Bounds(cx, cy)
			fn(cx, cy, x0, y0, x1, y1)
		}
	}
}
