// Package brush implements the authoring primitives that sit outside the
// tick: paint/erase strokes, flood fill, and rigid-shape stamping. Every
// operation here is mutually exclusive with a running tick — callers are
// expected to serialize brush calls and Step on a single owning thread.
package brush

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// Shape selects the bounding test a stroke applies around each sampled
// point.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeLine
)

// floodFillBudget bounds a single flood-fill call to prevent a runaway
// traversal from consuming unbounded time or stack.
const floodFillBudget = 200_000

// Brush applies paint/erase strokes and batch shapes to a grid, and
// tracks the last-known stroke cursor for Bresenham line interpolation
// between brush events.
//
// The flood-fill stack and visit-stamp array are owned here and reused
// across calls rather than allocated per call.
type Brush struct {
	Grid     *grid.Grid
	Elements *content.ElementTable
	Chunks   *chunk.Manager

	haveLast   bool
	lastX      int
	lastY      int
	nextHandle uint32

	visitStamp []uint32
	stampGen   uint32
	fillStack  []int
}

// NewBrush constructs a Brush bound to the given grid, element table, and
// chunk manager, pre-sizing the flood-fill visit-stamp array to one entry
// per cell.
func NewBrush(g *grid.Grid, elements *content.ElementTable, chunks *chunk.Manager) *Brush {
	return &Brush{
		Grid:       g,
		Elements:   elements,
		Chunks:     chunks,
		visitStamp: make([]uint32, g.Width*g.Height),
	}
}

// EndStroke resets the stroke cursor, so the next Add call starts a fresh
// shape instead of interpolating a line from stale state.
func (b *Brush) EndStroke() {
	b.haveLast = false
}

// Add paints elementID into the grid at (x, y) under the given shape,
// silently skipping already-occupied cells. For ShapeLine it interpolates
// a Bresenham path from the last stroke coordinate to (x, y), stamping a
// disk of radius r at every step along the path; with no prior
// coordinate (the first event of a stroke) it degrades to a single disk
// at (x, y). The stroke cursor is updated to (x, y) regardless of shape.
func (b *Brush) Add(tick uint64, x, y, r int, shape Shape, elementID content.ElementID) {
	elem, ok := b.Elements.Get(elementID)
	if !ok {
		b.lastX, b.lastY, b.haveLast = x, y, true
		return
	}
	switch {
	case shape == ShapeLine && b.haveLast:
		b.walkLine(tick, b.lastX, b.lastY, x, y, r, elem)
	case shape == ShapeSquare:
		b.stampSquare(tick, x, y, r, elem)
	default:
		b.stampDisk(tick, x, y, r, elem)
	}
	b.lastX, b.lastY, b.haveLast = x, y, true
}

// walkLine steps a Bresenham path from (x0, y0) to (x1, y1), stamping a
// disk of radius r at every step.
func (b *Brush) walkLine(tick uint64, x0, y0, x1, y1, r int, elem content.Element) {
	dx := x1 - x0
	dy := y1 - y0
	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}
	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
	}
	if dy < 0 {
		stepY = -1
	}
	err := absDx - absDy
	x, y := x0, y0
	for {
		b.stampDisk(tick, x, y, r, elem)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -absDy {
			err -= absDy
			x += stepX
		}
		if e2 < absDx {
			err += absDx
			y += stepY
		}
	}
}

// stampDisk paints elem into every cell in the bounding square of (cx,
// cy) with dx²+dy² ≤ r², failing silently on occupied cells.
func (b *Brush) stampDisk(tick uint64, cx, cy, r int, elem content.Element) {
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !b.Grid.InBounds(x, y) || !b.Grid.IsEmpty(x, y) {
				continue
			}
			color := rng.SpeckleColor(tick, x, y, elem.ColorABGR)
			b.Grid.SetParticle(x, y, uint8(elem.ID), color, elem.Lifetime, elem.DefaultTemp)
			b.Chunks.MarkDirty(x, y)
		}
	}
}

// stampSquare paints elem into every empty in-bounds cell of the
// (2r+1)x(2r+1) bounding square centered on (cx, cy); occupied cells are
// left as they are.
func (b *Brush) stampSquare(tick uint64, cx, cy, r int, elem content.Element) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			x, y := cx+dx, cy+dy
			if !b.Grid.InBounds(x, y) || !b.Grid.IsEmpty(x, y) {
				continue
			}
			color := rng.SpeckleColor(tick, x, y, elem.ColorABGR)
			b.Grid.SetParticle(x, y, uint8(elem.ID), color, elem.Lifetime, elem.DefaultTemp)
			b.Chunks.MarkDirty(x, y)
		}
	}
}

// Erase mirrors Add: it clears every cell within radius r of (x, y)
// under the given shape instead of painting one.
func (b *Brush) Erase(x, y, r int, shape Shape) {
	switch shape {
	case ShapeSquare:
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				b.eraseCell(x+dx, y+dy)
			}
		}
	default:
		r2 := r * r
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r2 {
					continue
				}
				b.eraseCell(x+dx, y+dy)
			}
		}
	}
	b.lastX, b.lastY, b.haveLast = x, y, true
}

func (b *Brush) eraseCell(x, y int) {
	if !b.Grid.InBounds(x, y) || b.Grid.IsEmpty(x, y) {
		return
	}
	b.Grid.ClearCell(x, y, true)
	b.Chunks.MarkDirty(x, y)
}
