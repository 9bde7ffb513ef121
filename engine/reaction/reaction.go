// Package reaction implements the post-movement bilateral reaction pass:
// pick one random neighbor, look up the pair in the compiled LUT, roll
// the chance, and apply replace/transform/spawn.
package reaction

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// Engine applies the reaction pass for individual cells.
type Engine struct {
	Grid     *grid.Grid
	Elements *content.ElementTable
	LUT      *content.ReactionLUT
	Chunks   *chunk.Manager
}

// neighborOffsets are the four orthogonal directions a reaction picks
// among, in a fixed order used only to index a random draw.
var neighborOffsets = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Attempt runs the reaction pass for the cell at (x, y), which must still
// be live. It picks one orthogonal neighbor uniformly at random, looks up
// the pair, and applies the rule if the chance roll succeeds. Only one
// reaction per cell per tick — the caller guarantees Attempt is called at
// most once per cell per tick as part of the sweep.
func (e *Engine) Attempt(tick uint64, x, y int) {
	selfType := e.Grid.TypeAt(x, y)
	if selfType == grid.EmptyType {
		return
	}

	d := neighborOffsets[rng.IntN(tick, x, y, rng.SaltReactionNeighbor, 4)]
	nx, ny := x+d[0], y+d[1]
	if !e.Grid.InBounds(nx, ny) {
		return
	}
	neighborType := e.Grid.TypeAt(nx, ny)
	if neighborType == grid.EmptyType {
		return
	}

	rule, selfIsAggressor, ok := e.LUT.Lookup(content.ElementID(selfType), content.ElementID(neighborType))
	if !ok {
		return
	}
	if rng.Float32(tick, x, y, rng.SaltReactionChance) >= rule.Chance {
		return
	}

	ax, ay, vx, vy := x, y, nx, ny
	if !selfIsAggressor {
		ax, ay, vx, vy = nx, ny, x, y
	}
	e.apply(tick, rule, ax, ay, vx, vy)
}

// apply realizes one reaction rule: replace the victim, transform or
// clear the aggressor, and spawn an optional byproduct. Every newly
// written cell gets a fresh per-cell color variation derived from
// (tick, x, y) rather than the element's flat base color.
func (e *Engine) apply(tick uint64, rule content.Reaction, ax, ay, vx, vy int) {
	if rule.ResultVictimDestroyed {
		e.Grid.ClearCell(vx, vy, true)
	} else if victimElem, ok := e.Elements.Get(rule.ResultVictim); ok {
		color := rng.SpeckleColor(tick, vx, vy, victimElem.ColorABGR)
		e.Grid.SetParticle(vx, vy, uint8(rule.ResultVictim), color, victimElem.Lifetime, e.Grid.TemperatureAt(vx, vy))
	}
	e.Grid.MarkUpdated(vx, vy)
	e.Chunks.MarkDirty(vx, vy)

	switch {
	case rule.ResultAggressorUnchanged:
		// leave self alone
	case rule.ResultAggressorDestroyed:
		e.Grid.ClearCell(ax, ay, true)
		e.Grid.MarkUpdated(ax, ay)
		e.Chunks.MarkDirty(ax, ay)
	default:
		if aggElem, ok := e.Elements.Get(rule.ResultAggressor); ok {
			color := rng.SpeckleColor(tick, ax, ay, aggElem.ColorABGR)
			e.Grid.SetParticle(ax, ay, uint8(rule.ResultAggressor), color, aggElem.Lifetime, e.Grid.TemperatureAt(ax, ay))
			e.Grid.MarkUpdated(ax, ay)
			e.Chunks.MarkDirty(ax, ay)
		}
	}

	if !rule.HasSpawn {
		return
	}
	spawnElem, ok := e.Elements.Get(rule.Spawn)
	if !ok {
		return
	}
	if e.trySpawnAbove(tick, ax, ay, spawnElem) {
		return
	}
	e.trySpawnAbove(tick, vx, vy, spawnElem)
}

// trySpawnAbove places spawnElem in the cell directly above (x, y) if
// empty. Called first for the aggressor's cell, then the victim's if the
// aggressor's was occupied; the spawn is discarded if both are occupied.
func (e *Engine) trySpawnAbove(tick uint64, x, y int, spawnElem content.Element) bool {
	sx, sy := x, y-1
	if !e.Grid.InBounds(sx, sy) || !e.Grid.IsEmpty(sx, sy) {
		return false
	}
	color := rng.SpeckleColor(tick, sx, sy, spawnElem.ColorABGR)
	e.Grid.SetParticle(sx, sy, uint8(spawnElem.ID), color, spawnElem.Lifetime, e.Grid.TemperatureAt(sx, sy))
	e.Chunks.MarkDirty(sx, sy)
	return true
}
