package brush

import (
	"testing"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
)

func newTestBrush(w, h int, elems ...content.Element) *Brush {
	bundle := &content.Bundle{}
	bundle.Elements = append(bundle.Elements, elems...)
	g := grid.New(w, h, 0, 20)
	return NewBrush(g, bundle.BuildElementTable(), chunk.New(w, h))
}

func sandElem() content.Element {
	return content.Element{ID: 1, Key: "base:sand", Category: content.CategoryPowder, ColorABGR: 0xFF00A0FF, Lifetime: 0, DefaultTemp: 20}
}

func TestAddCircleFillsWithinRadius(t *testing.T) {
	b := newTestBrush(10, 10, sandElem())

	b.Add(0, 5, 5, 2, ShapeCircle, 1)

	if b.Grid.TypeAt(5, 5) != 1 {
		t.Fatalf("center cell not painted")
	}
	if b.Grid.TypeAt(0, 0) != grid.EmptyType {
		t.Fatalf("far corner should remain empty")
	}
}

func TestAddFailsSilentlyOnOccupiedCells(t *testing.T) {
	b := newTestBrush(10, 10, sandElem())
	b.Grid.SetParticle(5, 5, 1, 0, 0, 20)

	b.Add(0, 5, 5, 0, ShapeCircle, 1)

	if got := b.Grid.TypeAt(5, 5); got != 1 {
		t.Fatalf("occupied cell should be unchanged, got %d", got)
	}
}

func TestAddLineInterpolatesFromLastCoordinate(t *testing.T) {
	b := newTestBrush(20, 5, sandElem())

	b.Add(0, 0, 2, 0, ShapeLine, 1)
	b.Add(0, 10, 2, 0, ShapeLine, 1)

	if b.Grid.TypeAt(5, 2) != 1 {
		t.Errorf("expected a midpoint cell on the line to be painted")
	}
}

func TestEndStrokeBreaksLineInterpolation(t *testing.T) {
	b := newTestBrush(20, 5, sandElem())
	b.Add(0, 0, 2, 0, ShapeLine, 1)
	b.EndStroke()

	if b.haveLast {
		t.Fatalf("EndStroke should clear the stroke cursor")
	}
}

func TestEraseMirrorsAdd(t *testing.T) {
	b := newTestBrush(10, 10, sandElem())
	b.Add(0, 5, 5, 1, ShapeCircle, 1)

	b.Erase(5, 5, 1, ShapeCircle)

	if b.Grid.TypeAt(5, 5) != grid.EmptyType {
		t.Errorf("erase should have cleared the center cell")
	}
}

func TestFloodFillReplacesConnectedRegion(t *testing.T) {
	b := newTestBrush(5, 5, sandElem())
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			b.Grid.SetParticle(x, y, 1, 0, 0, 20)
		}
	}

	b.FloodFill(2, 2, 0)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got := b.Grid.TypeAt(x, y); got != grid.EmptyType {
				t.Fatalf("cell (%d,%d) = %d, want empty after fill", x, y, got)
			}
		}
	}
}

func TestFloodFillDoesNotCrossDifferentType(t *testing.T) {
	wall := content.Element{ID: 2, Key: "base:wall", Category: content.CategorySolid}
	b := newTestBrush(5, 1, sandElem(), wall)
	b.Grid.SetParticle(0, 0, 0, 0, 0, 20)
	b.Grid.SetParticle(1, 0, 0, 0, 0, 20)
	b.Grid.SetParticle(2, 0, 2, 0, 0, 20)
	b.Grid.SetParticle(3, 0, 0, 0, 0, 20)

	b.FloodFill(0, 0, 1)

	if got := b.Grid.TypeAt(1, 0); got != 1 {
		t.Errorf("cell (1,0) = %d, want filled (1)", got)
	}
	if got := b.Grid.TypeAt(2, 0); got != 2 {
		t.Errorf("wall cell should not be overwritten, got %d", got)
	}
	if got := b.Grid.TypeAt(3, 0); got != grid.EmptyType {
		t.Errorf("cell past the wall should be untouched, got %d", got)
	}
}

func TestFloodFillSameTypeIsNoop(t *testing.T) {
	b := newTestBrush(3, 3, sandElem())
	b.Grid.SetParticle(1, 1, 1, 0xAAAAAAAA, 5, 30)

	b.FloodFill(1, 1, 1)

	if got := b.Grid.Color[b.Grid.Index(1, 1)]; got != 0xAAAAAAAA {
		t.Errorf("no-op fill should leave the cell untouched, color = %#x", got)
	}
}

func TestStampRectOverwritesExistingCells(t *testing.T) {
	stone := content.Element{ID: 1, Key: "base:stone", Category: content.CategorySolid, ColorABGR: 0xFF808080}
	b := newTestBrush(10, 10, stone)
	b.Grid.SetParticle(2, 2, 1, 0, 0, 20) // pre-existing particle in the stamp area

	h := b.StampRect(1, 1, 3, 3, 1)

	if h == 0 {
		t.Errorf("handle should be non-zero")
	}
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			if got := b.Grid.TypeAt(x, y); got != 1 {
				t.Errorf("cell (%d,%d) = %d, want stone (1)", x, y, got)
			}
		}
	}
}

func TestStampHandlesIncreaseMonotonically(t *testing.T) {
	stone := content.Element{ID: 1, Key: "base:stone", Category: content.CategorySolid}
	b := newTestBrush(10, 10, stone)

	h1 := b.StampRect(0, 0, 1, 1, 1)
	h2 := b.StampCircle(5, 5, 1, 1)

	if h2 <= h1 {
		t.Errorf("handles should increase monotonically: h1=%d h2=%d", h1, h2)
	}
}
