package behavior

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// orthogonal lists the four cardinal offsets: up, down, left, right.
var orthogonal = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// utilityStep dispatches Void and Clone, the two utility behaviors.
func (ctx *Context) utilityStep(tick uint64, x, y int, elem content.Element) {
	switch elem.Behavior {
	case "void":
		ctx.voidStep(x, y)
	case "clone":
		ctx.cloneStep(tick, x, y)
	}
}

// voidStep destroys every non-utility orthogonal neighbor each tick.
func (ctx *Context) voidStep(x, y int) {
	for _, d := range orthogonal {
		nx, ny := x+d[0], y+d[1]
		if _, ok := ctx.nonUtilityNeighbor(nx, ny); !ok {
			continue
		}
		ctx.Grid.ClearCell(nx, ny, false)
		ctx.Grid.MarkUpdated(nx, ny)
		ctx.Chunks.MarkDirty(nx, ny)
	}
}

// cloneStep replicates one non-utility orthogonal neighbor into exactly
// one empty orthogonal neighbor per tick, scanning both the source search
// and the placement search starting at the direction `tick mod 4`.
func (ctx *Context) cloneStep(tick uint64, x, y int) {
	start := int(tick % 4)

	var source content.Element
	found := false
	for i := 0; i < 4 && !found; i++ {
		d := orthogonal[(start+i)%4]
		nx, ny := x+d[0], y+d[1]
		if e, ok := ctx.nonUtilityNeighbor(nx, ny); ok {
			source, found = e, true
		}
	}
	if !found {
		return
	}

	for i := 0; i < 4; i++ {
		d := orthogonal[(start+i)%4]
		ex, ey := x+d[0], y+d[1]
		if !ctx.Grid.InBounds(ex, ey) || !ctx.Grid.IsEmpty(ex, ey) {
			continue
		}
		color := rng.SpeckleColor(tick, ex, ey, source.ColorABGR)
		ctx.Grid.SetParticle(ex, ey, uint8(source.ID), color, source.Lifetime, source.DefaultTemp)
		ctx.Chunks.MarkDirty(ex, ey)
		return // exactly one clone per tick
	}
}

// nonUtilityNeighbor returns the element at (nx, ny) if it is in bounds,
// live, and not itself a utility element.
func (ctx *Context) nonUtilityNeighbor(nx, ny int) (content.Element, bool) {
	if !ctx.Grid.InBounds(nx, ny) {
		return content.Element{}, false
	}
	nt := ctx.Grid.TypeAt(nx, ny)
	if nt == grid.EmptyType {
		return content.Element{}, false
	}
	e, ok := ctx.Elements.Get(content.ElementID(nt))
	if !ok || e.Category == content.CategoryUtility {
		return content.Element{}, false
	}
	return e, true
}
