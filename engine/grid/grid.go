// Package grid implements the structure-of-arrays cell substrate: five
// parallel arrays indexed by y*width+x, with get/set/swap and
// bounds-checked accessors. This is the World's sole in-memory
// representation of particle state; no aliasing handles escape except the
// read-only framebuffer pointers the engine package exposes at
// resize-stable addresses.
package grid

// EmptyType is the reserved element ID for the empty cell.
const EmptyType uint8 = 0

// Grid is the SoA cell substrate: type, color, lifetime, updated, and
// temperature stored in independent contiguous arrays for cache- and
// vectorization-friendly traversal.
type Grid struct {
	Width, Height int

	Type        []uint8
	Color       []uint32
	Lifetime    []uint16
	Updated     []uint8 // 0 or 1; a byte, not a bitset, to keep set() branch-free
	Temperature []float32

	BackgroundColor uint32
	AmbientTemp     float32
	GravityX        float32
	GravityY        float32
	Tick            uint64
}

// New allocates a grid of the given size. No further allocation occurs
// except on Resize.
func New(width, height int, background uint32, ambient float32) *Grid {
	n := width * height
	g := &Grid{
		Width:           width,
		Height:          height,
		Type:            make([]uint8, n),
		Color:           make([]uint32, n),
		Lifetime:        make([]uint16, n),
		Updated:         make([]uint8, n),
		Temperature:     make([]float32, n),
		BackgroundColor: background,
		AmbientTemp:     ambient,
		GravityY:        1, // positive Y is "down" by convention
	}
	for i := range g.Color {
		g.Color[i] = background
		g.Temperature[i] = ambient
	}
	return g
}

// InBounds reports whether (x, y) addresses a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index converts grid coordinates to a flat array index. Callers must check
// InBounds first; Index itself does no bounds checking so it stays
// inlinable on the hot path.
func (g *Grid) Index(x, y int) int { return y*g.Width + x }

// TypeAt returns the type at (x, y), or the empty sentinel if out of bounds.
func (g *Grid) TypeAt(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return EmptyType
	}
	return g.Type[g.Index(x, y)]
}

// TemperatureAt returns the temperature at (x, y), or ambient if out of
// bounds.
func (g *Grid) TemperatureAt(x, y int) float32 {
	if !g.InBounds(x, y) {
		return g.AmbientTemp
	}
	return g.Temperature[g.Index(x, y)]
}

// IsEmpty reports whether (x, y) holds no particle. Out-of-bounds counts as
// empty.
func (g *Grid) IsEmpty(x, y int) bool { return g.TypeAt(x, y) == EmptyType }

// Swap exchanges all five fields between (ax, ay) and (bx, by) atomically in
// logical terms. Out-of-bounds coordinates make Swap a no-op.
func (g *Grid) Swap(ax, ay, bx, by int) {
	if !g.InBounds(ax, ay) || !g.InBounds(bx, by) {
		return
	}
	ia, ib := g.Index(ax, ay), g.Index(bx, by)
	if ia == ib {
		return
	}
	g.Type[ia], g.Type[ib] = g.Type[ib], g.Type[ia]
	g.Color[ia], g.Color[ib] = g.Color[ib], g.Color[ia]
	g.Lifetime[ia], g.Lifetime[ib] = g.Lifetime[ib], g.Lifetime[ia]
	g.Updated[ia], g.Updated[ib] = g.Updated[ib], g.Updated[ia]
	g.Temperature[ia], g.Temperature[ib] = g.Temperature[ib], g.Temperature[ia]
}

// ClearCell resets (x, y) to empty: type and lifetime to zero, color to the
// background, and temperature either left in place or reset to ambient
// depending on resetTemp. Out-of-bounds writes are ignored.
func (g *Grid) ClearCell(x, y int, resetTemp bool) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.Index(x, y)
	g.Type[i] = EmptyType
	g.Color[i] = g.BackgroundColor
	g.Lifetime[i] = 0
	if resetTemp {
		g.Temperature[i] = g.AmbientTemp
	}
}

// SetParticle writes a live particle into (x, y) and marks it updated so the
// sweep does not immediately reprocess it this tick. Out-of-bounds writes
// are ignored.
func (g *Grid) SetParticle(x, y int, typ uint8, color uint32, lifetime uint16, temp float32) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.Index(x, y)
	g.Type[i] = typ
	g.Color[i] = color
	g.Lifetime[i] = lifetime
	g.Updated[i] = 1
	g.Temperature[i] = temp
}

// IsUpdated reports whether (x, y) has already been processed this tick.
func (g *Grid) IsUpdated(x, y int) bool {
	if !g.InBounds(x, y) {
		return true // treat out-of-bounds as "already handled"
	}
	return g.Updated[g.Index(x, y)] != 0
}

// MarkUpdated sets the per-tick update flag at (x, y).
func (g *Grid) MarkUpdated(x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	g.Updated[g.Index(x, y)] = 1
}

// ResetUpdated clears the per-tick update bit across the whole grid. The
// chunked variant is ResetUpdatedRect, which World.Step calls once per
// non-sleeping chunk;
// this unconditional version exists for standalone grid tests and for
// worlds too small to chunk.
func (g *Grid) ResetUpdated() {
	for i := range g.Updated {
		g.Updated[i] = 0
	}
}

// ResetUpdatedRect clears the per-tick update bit across [x0,y0,x1,y1),
// the chunk-bounded variant of ResetUpdated used to reset only non-sleeping
// chunks each tick.
func (g *Grid) ResetUpdatedRect(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Updated[g.Index(x, y)] = 0
		}
	}
}

// DecrementLifetime decrements the lifetime at (x, y) by one tick.
// Lifetime 0 means immortal and is left untouched. Reports whether the
// cell's lifetime reached zero this call, in which case the cell has
// already been cleared.
func (g *Grid) DecrementLifetime(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := g.Index(x, y)
	if g.Lifetime[i] == 0 {
		return false
	}
	g.Lifetime[i]--
	if g.Lifetime[i] == 0 {
		g.ClearCell(x, y, true)
		return true
	}
	return false
}

// CountLive returns the number of non-empty cells in [x0,x1)x[y0,y1),
// implementing engine/chunk.LiveCounter.
func (g *Grid) CountLive(x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.Type[g.Index(x, y)] != EmptyType {
				n++
			}
		}
	}
	return n
}

// SetTemperature writes the temperature at (x, y). Out-of-bounds writes are
// ignored.
func (g *Grid) SetTemperature(x, y int, t float32) {
	if !g.InBounds(x, y) {
		return
	}
	g.Temperature[g.Index(x, y)] = t
}

// Resize reallocates the grid to new dimensions, preserving the overlapping
// sub-rectangle of cells. Framebuffer pointers obtained before Resize are
// invalidated; callers must re-acquire them.
func (g *Grid) Resize(width, height int) {
	n := width * height
	newType := make([]uint8, n)
	newColor := make([]uint32, n)
	newLifetime := make([]uint16, n)
	newUpdated := make([]uint8, n)
	newTemperature := make([]float32, n)

	for i := range newColor {
		newColor[i] = g.BackgroundColor
		newTemperature[i] = g.AmbientTemp
	}

	overlapW := min(width, g.Width)
	overlapH := min(height, g.Height)
	for y := 0; y < overlapH; y++ {
		for x := 0; x < overlapW; x++ {
			oldIdx := y*g.Width + x
			newIdx := y*width + x
			newType[newIdx] = g.Type[oldIdx]
			newColor[newIdx] = g.Color[oldIdx]
			newLifetime[newIdx] = g.Lifetime[oldIdx]
			newUpdated[newIdx] = g.Updated[oldIdx]
			newTemperature[newIdx] = g.Temperature[oldIdx]
		}
	}

	g.Width, g.Height = width, height
	g.Type, g.Color, g.Lifetime, g.Updated, g.Temperature =
		newType, newColor, newLifetime, newUpdated, newTemperature
}
