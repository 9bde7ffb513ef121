package behavior

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/grid"
)

// gasStep is liquid's behavior inverted against gravity: rise straight up
// and diagonally up, then disperse horizontally scanning for a "chimney"
// instead of a cliff.
func (ctx *Context) gasStep(tick uint64, x, y int, elem content.Element) {
	if ctx.tryRise(tick, x, y, elem) {
		return
	}

	dispersion := int(elem.Dispersion)
	if dispersion <= 0 {
		return
	}

	isChimney := func(tx, ty int) bool {
		above := ctx.Grid.TypeAt(tx, ty-1)
		if above == grid.EmptyType {
			return true
		}
		aboveElem, ok := ctx.Elements.Get(content.ElementID(above))
		return ok && aboveElem.Density > elem.Density
	}
	leftTarget, leftFound, leftChimney := ctx.scanFluidRow(x, y, elem, -1, dispersion, isChimney)
	rightTarget, rightFound, rightChimney := ctx.scanFluidRow(x, y, elem, 1, dispersion, isChimney)

	target, ok := pickDisperseTarget(tick, x, y, leftTarget, leftFound, leftChimney, rightTarget, rightFound, rightChimney)
	if !ok {
		return
	}
	ctx.Grid.Swap(x, y, target[0], target[1])
	ctx.Chunks.MarkDirty(x, y)
	ctx.Chunks.MarkDirty(target[0], target[1])
}

// tryRise mirrors tryFall but along the direction opposite gravity.
func (ctx *Context) tryRise(tick uint64, x, y int, elem content.Element) bool {
	gdx, gdy := gravitySign(ctx.Grid.GravityX, ctx.Grid.GravityY)
	if gdx == 0 && gdy == 0 {
		return false
	}
	straight, diagA, diagB := fallCandidates(x, y, -gdx, -gdy)
	if ctx.tryDisplace(x, y, elem.Density, straight[0], straight[1]) {
		return true
	}
	first, second := orderByParity(tick, x, diagA, diagB)
	if ctx.tryDisplace(x, y, elem.Density, first[0], first[1]) {
		return true
	}
	return ctx.tryDisplace(x, y, elem.Density, second[0], second[1])
}
