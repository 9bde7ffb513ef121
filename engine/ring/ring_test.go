package ring

import "testing"

func TestPushAndDrainPreservesOrder(t *testing.T) {
	r := New(8)
	r.Push(Event{X: 1, Y: 2, Type: TypeBrushOffset + 5, Value: 3})
	r.Push(Event{X: 4, Y: 5, Type: TypeEndStroke})

	var got []Event
	r.Drain(func(e Event) { got = append(got, e) })

	if len(got) != 2 {
		t.Fatalf("drained %d events, want 2", len(got))
	}
	if got[0].X != 1 || got[0].Type != TypeBrushOffset+5 {
		t.Errorf("first event = %+v, want brush at (1,2) elem 5", got[0])
	}
	if got[1].Type != TypeEndStroke {
		t.Errorf("second event type = %d, want TypeEndStroke", got[1].Type)
	}
}

func TestDrainIsIdempotentWhenEmpty(t *testing.T) {
	r := New(4)
	r.Push(Event{Type: TypeNone})
	called := 0
	r.Drain(func(Event) { called++ })
	if called != 1 {
		t.Fatalf("first drain called fn %d times, want 1", called)
	}

	called = 0
	r.Drain(func(Event) { called++ })
	if called != 0 {
		t.Errorf("second drain called fn %d times, want 0 (already drained)", called)
	}
}

func TestOverflowSetsFlagAndDropsEvent(t *testing.T) {
	r := New(2) // capacity 2 means only 1 usable slot before collision
	r.Push(Event{X: 1})
	r.Push(Event{X: 2}) // should overflow: next write index would equal readHead

	if !r.TakeOverflow() {
		t.Fatalf("expected overflow flag to be set")
	}
	if r.TakeOverflow() {
		t.Errorf("TakeOverflow should clear the flag after reading it")
	}

	var got []Event
	r.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 1 || got[0].X != 1 {
		t.Errorf("dropped event should not appear in drain, got %+v", got)
	}
}

func TestPushBrushEncodesElementIDInType(t *testing.T) {
	r := New(4)
	r.PushBrush(10, 20, 7, 3)

	var got Event
	r.Drain(func(e Event) { got = e })

	if got.Type != TypeBrushOffset+7 {
		t.Errorf("type = %d, want brush offset + element 7", got.Type)
	}
	if got.X != 10 || got.Y != 20 || got.Value != 3 {
		t.Errorf("event = %+v, want x=10 y=20 value=3", got)
	}
}

func TestPushEndStrokeEnqueuesSentinel(t *testing.T) {
	r := New(4)
	r.PushEndStroke()

	var got Event
	r.Drain(func(e Event) { got = e })
	if got.Type != TypeEndStroke {
		t.Errorf("type = %d, want TypeEndStroke", got.Type)
	}
}
