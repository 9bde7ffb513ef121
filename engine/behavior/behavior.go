// Package behavior implements the per-category cell update functions:
// powder, liquid, gas, energy, utility, bio. Dispatch is a switch over
// the element's category tag, not a table of closures — category is a
// fixed, closed, compile-time set.
package behavior

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// Context bundles the references every behavior function needs: the grid
// (mutable), the element table (read-only), and the chunk manager (so a
// mutation can mark its chunk and the swap's destination chunk dirty).
type Context struct {
	Grid     *grid.Grid
	Elements *content.ElementTable
	Chunks   *chunk.Manager

	// Bundle gives bio behaviors key-based lookup (a seed's companion
	// plant element, resolved by naming convention — see bio.go) beyond
	// the ID-indexed ElementTable.
	Bundle *content.Bundle
}

// Dispatch runs the behavior for the live cell at (x, y). Callers (the
// World's sweep visitor) must have already verified the cell is live,
// not yet updated this tick, and in a non-sleeping chunk.
func (ctx *Context) Dispatch(tick uint64, x, y int) {
	elem, ok := ctx.Elements.Get(content.ElementID(ctx.Grid.Type[ctx.Grid.Index(x, y)]))
	if !ok {
		return
	}
	switch elem.Category {
	case content.CategoryPowder:
		ctx.powderStep(tick, x, y, elem)
	case content.CategoryLiquid:
		ctx.liquidStep(tick, x, y, elem)
	case content.CategoryGas:
		ctx.gasStep(tick, x, y, elem)
	case content.CategoryEnergy:
		ctx.energyStep(tick, x, y, elem)
	case content.CategoryUtility:
		ctx.utilityStep(tick, x, y, elem)
	case content.CategoryBio:
		ctx.bioStep(tick, x, y, elem)
	case content.CategorySolid:
		// Solids never move and have no per-tick behavior of their own.
	}
}

// canDisplace reports whether a particle of density selfDensity can move
// into a cell currently holding targetType: the target is empty, or the
// target is a fluid (liquid/gas) strictly less dense than the mover.
func (ctx *Context) canDisplace(selfDensity float32, targetType uint8) bool {
	if targetType == grid.EmptyType {
		return true
	}
	target, ok := ctx.Elements.Get(content.ElementID(targetType))
	if !ok {
		return false
	}
	if target.Category != content.CategoryLiquid && target.Category != content.CategoryGas {
		return false
	}
	return selfDensity > target.Density
}

// tryDisplace attempts to move the particle at (x, y) into (tx, ty),
// swapping and marking both chunks dirty on success. Reports whether the
// move happened.
func (ctx *Context) tryDisplace(x, y int, selfDensity float32, tx, ty int) bool {
	if !ctx.Grid.InBounds(tx, ty) {
		return false
	}
	if !ctx.canDisplace(selfDensity, ctx.Grid.TypeAt(tx, ty)) {
		return false
	}
	ctx.Grid.Swap(x, y, tx, ty)
	ctx.Chunks.MarkDirty(x, y)
	ctx.Chunks.MarkDirty(tx, ty)
	return true
}

// orderByParity returns the two perpendicular offsets in the order chosen
// by rng.RandomDir, so diagA (perpendicular offset -1) and diagB
// (perpendicular offset +1) are tried in an alternating order across
// cells and ticks.
func orderByParity(tick uint64, x int, diagA, diagB [2]int) (first, second [2]int) {
	d1, _ := rng.RandomDir(tick, x)
	if d1 == -1 {
		return diagA, diagB
	}
	return diagB, diagA
}

// transformInPlace rewrites the cell at (x, y) into a different element,
// preserving its current temperature; lifetime is reset to the new
// element's declared lifetime (a fresh lifecycle, matching reaction and
// phase-change semantics elsewhere). The chunk is marked dirty.
func (ctx *Context) transformInPlace(tick uint64, x, y int, newElem content.Element) {
	temp := ctx.Grid.TemperatureAt(x, y)
	color := rng.SpeckleColor(tick, x, y, newElem.ColorABGR)
	ctx.Grid.SetParticle(x, y, uint8(newElem.ID), color, newElem.Lifetime, temp)
	ctx.Chunks.MarkDirty(x, y)
}

// scanFluidRow walks row y from (x, y) one cell at a time in direction dir
// (-1 left, +1 right), up to dispersion cells, stopping at the first cell
// the particle cannot displace (a solid, or a fluid the particle is not
// dense enough to displace). It returns the farthest reachable cell,
// whether any cell was reachable at all, and whether markerAt reported
// true for any reachable cell along the way (the liquid "cliff" check or
// the gas "chimney" check, supplied by the caller).
func (ctx *Context) scanFluidRow(x, y int, elem content.Element, dir, dispersion int, markerAt func(tx, ty int) bool) (target [2]int, found, marker bool) {
	cur := x
	for i := 1; i <= dispersion; i++ {
		tx := x + dir*i
		if !ctx.Grid.InBounds(tx, y) {
			break
		}
		targetType := ctx.Grid.TypeAt(tx, y)
		if targetType != grid.EmptyType {
			t, ok := ctx.Elements.Get(content.ElementID(targetType))
			if !ok || (t.Category != content.CategoryLiquid && t.Category != content.CategoryGas) || elem.Density <= t.Density {
				break
			}
		}
		cur = tx
		found = true
		if markerAt(tx, y) {
			marker = true
		}
	}
	return [2]int{cur, y}, found, marker
}

// spawnAt places newElem at (x, y) if and only if the cell is empty, with
// a fresh per-cell color variation derived from (tick, x, y). Reports
// whether the spawn happened.
func (ctx *Context) spawnAt(tick uint64, x, y int, newElem content.Element) bool {
	if !ctx.Grid.InBounds(x, y) || !ctx.Grid.IsEmpty(x, y) {
		return false
	}
	color := rng.SpeckleColor(tick, x, y, newElem.ColorABGR)
	ctx.Grid.SetParticle(x, y, uint8(newElem.ID), color, newElem.Lifetime, ctx.Grid.TemperatureAt(x, y))
	ctx.Chunks.MarkDirty(x, y)
	return true
}
