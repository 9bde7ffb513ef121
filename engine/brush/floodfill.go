package brush

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/grid"
)

// FloodFill replaces every 4-connected cell reachable from (x, y) that
// shares its source type with targetID, up to floodFillBudget cells, to
// prevent a runaway fill from consuming unbounded time. Filling a region
// with its own existing type is a no-op: no cells change and no chunk is
// marked dirty.
//
// The traversal uses an explicit stack rather than recursion, and a
// monotonically incrementing visit-stamp array reused across calls
// instead of a fresh visited-set allocation per call.
func (b *Brush) FloodFill(x, y int, targetID uint8) {
	if !b.Grid.InBounds(x, y) {
		return
	}
	source := b.Grid.TypeAt(x, y)
	if source == targetID {
		return
	}
	targetElem, haveTarget := b.Elements.Get(content.ElementID(targetID))

	b.stampGen++
	if b.stampGen == 0 {
		for i := range b.visitStamp {
			b.visitStamp[i] = 0
		}
		b.stampGen = 1
	}
	gen := b.stampGen

	b.fillStack = b.fillStack[:0]
	b.fillStack = append(b.fillStack, b.Grid.Index(x, y))
	b.visitStamp[b.Grid.Index(x, y)] = gen

	filled := 0
	for len(b.fillStack) > 0 && filled < floodFillBudget {
		top := len(b.fillStack) - 1
		idx := b.fillStack[top]
		b.fillStack = b.fillStack[:top]

		cx, cy := idx%b.Grid.Width, idx/b.Grid.Width
		if targetID == grid.EmptyType {
			b.Grid.ClearCell(cx, cy, true)
		} else if haveTarget {
			b.Grid.SetParticle(cx, cy, targetID, targetElem.ColorABGR, targetElem.Lifetime, targetElem.DefaultTemp)
		}
		b.Chunks.MarkDirty(cx, cy)
		filled++

		for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			nx, ny := cx+d[0], cy+d[1]
			if !b.Grid.InBounds(nx, ny) {
				continue
			}
			ni := b.Grid.Index(nx, ny)
			if b.visitStamp[ni] == gen {
				continue
			}
			b.visitStamp[ni] = gen
			if b.Grid.Type[ni] != source {
				continue
			}
			b.fillStack = append(b.fillStack, ni)
		}
	}
}
