package chunk

import "testing"

type fakeCounter struct{ live int }

func (f fakeCounter) CountLive(x0, y0, x1, y1 int) int { return f.live }

func TestNewChunksStartEmpty(t *testing.T) {
	m := New(64, 64)
	if m.Cols != 2 || m.Rows != 2 {
		t.Fatalf("Cols/Rows = %d/%d, want 2/2", m.Cols, m.Rows)
	}
	if m.State(0, 0) != Empty {
		t.Errorf("initial state = %v, want Empty", m.State(0, 0))
	}
}

func TestMarkDirtyWakesChunkAndEdgeNeighbors(t *testing.T) {
	m := New(96, 96) // 3x3 chunks
	m.MarkDirty(Size+1, Size+1) // center chunk (1,1)

	if m.State(Size+1, Size+1) != Active {
		t.Errorf("touched chunk state = %v, want Active", m.State(Size+1, Size+1))
	}
	// Edge neighbors (0,1) (2,1) (1,0) (1,2) should wake.
	if m.State(1, Size+1) != Active {
		t.Errorf("west neighbor not woken")
	}
	if m.State(2*Size+1, Size+1) != Active {
		t.Errorf("east neighbor not woken")
	}
	if m.State(Size+1, 1) != Active {
		t.Errorf("north neighbor not woken")
	}
	if m.State(Size+1, 2*Size+1) != Active {
		t.Errorf("south neighbor not woken")
	}
	// Corner chunk (0,0) shares no edge with (1,1) and must stay Empty.
	if m.State(1, 1) != Empty {
		t.Errorf("corner chunk woken incorrectly, want still Empty")
	}
}

func TestIdleChunkSleepsAfterThreshold(t *testing.T) {
	m := New(32, 32)
	m.MarkDirty(0, 0)
	m.EndTick(fakeCounter{live: 1}) // dirty this tick, stays Active and idle counter not incremented

	if m.State(0, 0) != Active {
		t.Fatalf("state after dirty tick = %v, want Active", m.State(0, 0))
	}

	for i := 0; i < SleepAfterIdleTicks-1; i++ {
		m.EndTick(fakeCounter{live: 1})
		if m.State(0, 0) != Active {
			t.Fatalf("tick %d: state = %v, want still Active before threshold", i, m.State(0, 0))
		}
	}
	m.EndTick(fakeCounter{live: 1})
	if m.State(0, 0) != Sleeping {
		t.Errorf("state after %d idle ticks = %v, want Sleeping", SleepAfterIdleTicks, m.State(0, 0))
	}
}

func TestIdleChunkWithNoLiveCellsGoesEmpty(t *testing.T) {
	m := New(32, 32)
	m.MarkDirty(0, 0)
	m.EndTick(fakeCounter{live: 0})
	for i := 0; i < SleepAfterIdleTicks; i++ {
		m.EndTick(fakeCounter{live: 0})
	}
	if m.State(0, 0) != Empty {
		t.Errorf("state = %v, want Empty (no live cells)", m.State(0, 0))
	}
}

func TestMarkDirtyWakesSleepingChunk(t *testing.T) {
	m := New(32, 32)
	m.MarkDirty(0, 0)
	m.EndTick(fakeCounter{live: 1}) // dirty tick: does not count as idle
	for i := 0; i < SleepAfterIdleTicks; i++ {
		m.EndTick(fakeCounter{live: 1})
	}
	if m.State(0, 0) != Sleeping {
		t.Fatalf("precondition failed: state = %v, want Sleeping", m.State(0, 0))
	}
	m.MarkDirty(0, 0)
	if m.State(0, 0) != Active {
		t.Errorf("state after re-dirtying a sleeping chunk = %v, want Active", m.State(0, 0))
	}
}

func TestIsSleepingOutOfBoundsIsFalse(t *testing.T) {
	m := New(32, 32)
	if m.IsSleeping(-1, -1) {
		t.Errorf("out-of-bounds coordinate reported as sleeping")
	}
}

func TestForEachNonSleepingSkipsSleepingChunks(t *testing.T) {
	m := New(96, 32) // 3x1 chunks
	// Waking (0,0) also wakes its east neighbor (1,0); (2,0) stays Empty.
	m.MarkDirty(0, 0)
	m.EndTick(fakeCounter{live: 1}) // dirty tick: does not count as idle
	for i := 0; i < SleepAfterIdleTicks; i++ {
		m.EndTick(fakeCounter{live: 1})
	}
	visited := 0
	m.ForEachNonSleeping(func(cx, cy, x0, y0, x1, y1 int) {
		visited++
		if cx != 2 {
			t.Errorf("sleeping chunk (%d,0) visited", cx)
		}
	})
	if visited != 1 {
		t.Errorf("visited = %d, want 1 (only chunk (2,0))", visited)
	}
}

func TestResetDirtyRectDrainsOnce(t *testing.T) {
	m := New(32, 32)
	m.MarkDirty(0, 0)
	first := m.ResetDirtyRect()
	if len(first) != 1 {
		t.Fatalf("first drain = %d entries, want 1", len(first))
	}
	second := m.ResetDirtyRect()
	if len(second) != 0 {
		t.Errorf("second drain = %d entries, want 0", len(second))
	}
}
