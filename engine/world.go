// Package engine ties the grid, chunk manager, sweep scheduler, category
// behaviors, thermal pass, reaction engine, brush, and input ring into the
// single World type that owns a simulation end to end.
package engine

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engerr"
	"github.com/kferrin/cellforge/engine/behavior"
	"github.com/kferrin/cellforge/engine/brush"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/reaction"
	"github.com/kferrin/cellforge/engine/ring"
	"github.com/kferrin/cellforge/engine/sweep"
	"github.com/kferrin/cellforge/engine/thermal"
)

// World owns every piece of simulation state exclusively: the grid
// arrays, chunk state, element table, reaction LUT, and tick counter.
// Nothing outside the engine package is permitted to mutate them
// directly.
type World struct {
	Grid   *grid.Grid
	Chunks *chunk.Manager
	Brush  *brush.Brush
	Ring   *ring.Ring

	bundle    *content.Bundle
	elements  *content.ElementTable
	reactions *content.ReactionLUT

	behaviorCtx *behavior.Context
	thermalEng  *thermal.Engine
	reactionEng *reaction.Engine

	tick uint64
}

// New creates a world of the given size with no content loaded: every
// cell is empty and the element table and reaction LUT are both empty.
// LoadBundle must be called before Step does anything interesting.
func New(width, height int) *World {
	g := grid.New(width, height, 0xFF000000, 20)
	chunks := chunk.New(width, height)
	empty := &content.Bundle{}
	w := &World{
		Grid:   g,
		Chunks: chunks,
		Ring:   ring.New(1024),
		bundle: empty,
	}
	w.rebuildContent(empty)
	return w
}

// LoadBundle replaces the world's content (element table, reaction LUT)
// from a compiled Bundle JSON document. Live cells already on the grid
// keep their element IDs; callers normally load a bundle once before
// placing any particles.
func (w *World) LoadBundle(bundleJSON []byte) error {
	bundle := &content.Bundle{}
	if err := bundle.UnmarshalJSON(bundleJSON); err != nil {
		return engerr.NewCompileError("", err)
	}
	w.rebuildContent(bundle)
	return nil
}

func (w *World) rebuildContent(bundle *content.Bundle) {
	w.bundle = bundle
	w.elements = bundle.BuildElementTable()
	w.reactions = bundle.BuildReactionLUT()
	w.behaviorCtx = &behavior.Context{
		Grid:     w.Grid,
		Elements: w.elements,
		Chunks:   w.Chunks,
		Bundle:   bundle,
	}
	w.thermalEng = &thermal.Engine{Grid: w.Grid, Elements: w.elements, Chunks: w.Chunks}
	w.reactionEng = &reaction.Engine{Grid: w.Grid, Elements: w.elements, LUT: w.reactions, Chunks: w.Chunks}
	w.Brush = brush.NewBrush(w.Grid, w.elements, w.Chunks)
}

// Tick returns the number of completed Step calls.
func (w *World) Tick() uint64 { return w.tick }

// Elements exposes the current element table for callers that need
// category/flag lookups (a viewer coloring the framebuffer legend, a
// tuning tool reading dispersion/density).
func (w *World) Elements() *content.ElementTable { return w.elements }

// ChunkActivity reports the number of chunks currently Active and
// currently Sleeping, for diagnostics reporting.
func (w *World) ChunkActivity() (active, sleeping int) {
	return w.Chunks.CountStates()
}

// Step advances the simulation by exactly one tick: drain the input
// ring, reset per-cell updated flags across non-sleeping chunks, choose a
// sweep direction, sweep every live cell (lifetime decrement, behavior
// dispatch, reaction attempt), run the thermal pass on every other tick,
// update chunk sleep state, and advance the tick counter.
func (w *World) Step() {
	w.drainRing()

	w.Chunks.ForEachNonSleeping(func(_, _, x0, y0, x1, y1 int) {
		w.Grid.ResetUpdatedRect(x0, y0, x1, y1)
	})

	dir := sweep.Choose(w.tick, w.Grid.GravityY)
	sweep.Run(w.Grid.Width, w.Grid.Height, dir, w.Chunks, w)

	if w.tick%2 == 0 {
		w.thermalEng.Step(w.tick)
	}

	w.Chunks.EndTick(w.Grid)
	w.tick++
}

// TypeAt implements sweep.Cell.
func (w *World) TypeAt(x, y int) uint8 { return w.Grid.TypeAt(x, y) }

// IsUpdated implements sweep.Cell.
func (w *World) IsUpdated(x, y int) bool { return w.Grid.IsUpdated(x, y) }

// Visit implements sweep.Cell: set updated, decrement lifetime (destroying
// the cell on expiry), dispatch the category behavior, then attempt one
// reaction.
func (w *World) Visit(x, y int) {
	w.Grid.MarkUpdated(x, y)
	if w.Grid.DecrementLifetime(x, y) {
		w.Chunks.MarkDirty(x, y)
		return
	}
	w.behaviorCtx.Dispatch(w.tick, x, y)
	w.reactionEng.Attempt(w.tick, x, y)
}

// AddParticle places elementID at (x, y) if the cell is empty, reporting
// whether the placement happened.
func (w *World) AddParticle(x, y int, elementID content.ElementID) bool {
	if !w.Grid.IsEmpty(x, y) {
		return false
	}
	w.Brush.Add(w.tick, x, y, 0, brush.ShapeCircle, elementID)
	return w.Grid.TypeAt(x, y) == uint8(elementID)
}

// AddParticlesInRadius paints elementID into every empty cell within
// radius r of (cx, cy), failing silently on occupied cells.
func (w *World) AddParticlesInRadius(cx, cy, r int, elementID content.ElementID) {
	w.Brush.Add(w.tick, cx, cy, r, brush.ShapeCircle, elementID)
}

// RemoveParticle clears the cell at (x, y), reporting whether it held a
// particle.
func (w *World) RemoveParticle(x, y int) bool {
	if w.Grid.IsEmpty(x, y) {
		return false
	}
	w.Brush.Erase(x, y, 0, brush.ShapeCircle)
	return true
}

// RemoveParticlesInRadius clears every live cell within radius r of
// (cx, cy).
func (w *World) RemoveParticlesInRadius(cx, cy, r int) {
	w.Brush.Erase(cx, cy, r, brush.ShapeCircle)
}

// FloodFill replaces the 4-connected region of (x, y)'s current type with
// elementID, up to the brush package's per-call cell budget.
func (w *World) FloodFill(x, y int, elementID content.ElementID) {
	w.Brush.FloodFill(x, y, uint8(elementID))
}

// SpawnRigidBody stamps a w-by-h rectangle of elementID with its top-left
// corner at (x, y), returning a placement handle.
func (w *World) SpawnRigidBody(x, y, width, height int, elementID content.ElementID) brush.Handle {
	return w.Brush.StampRect(x, y, width, height, elementID)
}

// SpawnRigidCircle stamps a filled disk of radius r of elementID centered
// on (cx, cy), returning a placement handle.
func (w *World) SpawnRigidCircle(cx, cy, r int, elementID content.ElementID) brush.Handle {
	return w.Brush.StampCircle(cx, cy, r, elementID)
}

// SetGravity updates the world's gravity vector, which governs both the
// sweep direction and every behavior's fall/rise/displace math.
func (w *World) SetGravity(gx, gy float32) {
	w.Grid.GravityX = gx
	w.Grid.GravityY = gy
}

// SetAmbientTemperature updates the world's ambient temperature, consulted
// by the thermal pass's empty-cell relaxation and off-grid heat leak.
func (w *World) SetAmbientTemperature(t float32) {
	w.Grid.AmbientTemp = t
}

// Snapshot returns a packed u8[width*height] of cell types only. Color,
// lifetime, updated, and temperature are intentionally excluded;
// LoadSnapshot rebuilds them from element defaults.
func (w *World) Snapshot() []byte {
	out := make([]byte, len(w.Grid.Type))
	copy(out, w.Grid.Type)
	return out
}

// LoadSnapshot restores cell types from a packed u8[width*height] byte
// stream, rebuilding color, lifetime, and temperature to each cell's
// element defaults. The world is left unchanged and an
// *engerr.SnapshotMismatch is returned if len(data) != width*height.
func (w *World) LoadSnapshot(data []byte) error {
	want := w.Grid.Width * w.Grid.Height
	if len(data) != want {
		return &engerr.SnapshotMismatch{Want: want, Got: len(data)}
	}
	for i, typ := range data {
		x, y := i%w.Grid.Width, i/w.Grid.Width
		if typ == grid.EmptyType {
			w.Grid.ClearCell(x, y, true)
			continue
		}
		elem, ok := w.elements.Get(content.ElementID(typ))
		if !ok {
			w.Grid.ClearCell(x, y, true)
			continue
		}
		w.Grid.SetParticle(x, y, typ, elem.ColorABGR, elem.Lifetime, elem.DefaultTemp)
		w.Grid.Updated[i] = 0
		w.Chunks.MarkDirty(x, y)
	}
	return nil
}

// FramebufferPointers returns stable slice views over the grid's internal
// type, color, and temperature arrays, valid until the next Resize.
func (w *World) FramebufferPointers() (types []uint8, colors []uint32, temperature []float32) {
	return w.Grid.Type, w.Grid.Color, w.Grid.Temperature
}

// Resize reallocates the grid to new dimensions, preserving the
// overlapping sub-rectangle. Any previously obtained FramebufferPointers
// results are invalidated.
func (w *World) Resize(width, height int) {
	w.Grid.Resize(width, height)
	w.Chunks = chunk.New(width, height)
	w.behaviorCtx.Chunks = w.Chunks
	w.thermalEng.Chunks = w.Chunks
	w.reactionEng.Chunks = w.Chunks
	w.Brush = brush.NewBrush(w.Grid, w.elements, w.Chunks)
}

// drainRing is the consumer side of the shared-input ring contract:
// read-and-clear the overflow flag first (resetting the brush stroke
// cursor on overflow, since a dropped event may have broken a
// line-interpolation sequence), then drain every queued event, applying
// each as a brush add, erase, or end-of-stroke.
func (w *World) drainRing() {
	if w.Ring.TakeOverflow() {
		w.Brush.EndStroke()
	}
	w.Ring.Drain(w.applyRingEvent)
}

func (w *World) applyRingEvent(e ring.Event) {
	switch {
	case e.Type == ring.TypeEndStroke:
		w.Brush.EndStroke()
	case e.Type >= ring.TypeBrushOffset:
		elementID := content.ElementID(e.Type - ring.TypeBrushOffset)
		w.Brush.Add(w.tick, int(e.X), int(e.Y), int(e.Value), brush.ShapeCircle, elementID)
	default:
		// TypeNone and any other unrecognized code: ignored.
	}
}
