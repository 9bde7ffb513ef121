package brush

import "github.com/kferrin/cellforge/content"

// Handle identifies one rigid stamp placement. Handles are a bare 32-bit
// counter, with no registry backing them: no further bookkeeping is
// performed beyond minting the next value.
type Handle uint32

// StampRect writes a w-by-h rectangle of elementID into the grid with its
// top-left corner at (x, y), overwriting existing cells and marking every
// touched chunk dirty.
func (b *Brush) StampRect(x, y, w, h int, elementID content.ElementID) Handle {
	elem, ok := b.Elements.Get(elementID)
	if !ok {
		return b.allocHandle()
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cx, cy := x+dx, y+dy
			if !b.Grid.InBounds(cx, cy) {
				continue
			}
			b.Grid.SetParticle(cx, cy, uint8(elem.ID), elem.ColorABGR, elem.Lifetime, elem.DefaultTemp)
			b.Chunks.MarkDirty(cx, cy)
		}
	}
	return b.allocHandle()
}

// StampCircle writes a filled disk of radius r of elementID centered on
// (cx, cy) into the grid, overwriting existing cells.
func (b *Brush) StampCircle(cx, cy, r int, elementID content.ElementID) Handle {
	elem, ok := b.Elements.Get(elementID)
	if !ok {
		return b.allocHandle()
	}
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !b.Grid.InBounds(x, y) {
				continue
			}
			b.Grid.SetParticle(x, y, uint8(elem.ID), elem.ColorABGR, elem.Lifetime, elem.DefaultTemp)
			b.Chunks.MarkDirty(x, y)
		}
	}
	return b.allocHandle()
}

// allocHandle mints the next rigid-stamp handle. Handles are issued even
// when the element ID was invalid and nothing was written; stamping has
// no failure case that withholds a handle.
func (b *Brush) allocHandle() Handle {
	b.nextHandle++
	return Handle(b.nextHandle)
}
