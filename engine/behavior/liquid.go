package behavior

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// liquidStep falls straight down then diagonally, and failing that
// disperses horizontally, teleporting to the farthest reachable cell with
// a preference for waterfall cliffs.
func (ctx *Context) liquidStep(tick uint64, x, y int, elem content.Element) {
	if ctx.tryFall(tick, x, y, elem) {
		return
	}

	dispersion := int(elem.Dispersion)
	if dispersion <= 0 {
		return
	}

	isCliff := func(tx, ty int) bool {
		return ctx.Grid.TypeAt(tx, ty) == grid.EmptyType && ctx.Grid.TypeAt(tx, ty+1) == grid.EmptyType
	}
	leftTarget, leftFound, leftCliff := ctx.scanFluidRow(x, y, elem, -1, dispersion, isCliff)
	rightTarget, rightFound, rightCliff := ctx.scanFluidRow(x, y, elem, 1, dispersion, isCliff)

	target, ok := pickDisperseTarget(tick, x, y, leftTarget, leftFound, leftCliff, rightTarget, rightFound, rightCliff)
	if !ok {
		return
	}
	ctx.Grid.Swap(x, y, target[0], target[1])
	ctx.Chunks.MarkDirty(x, y)
	ctx.Chunks.MarkDirty(target[0], target[1])
}

// tryFall attempts straight-then-diagonal movement along the grid's
// gravity sign, which it reads itself; gas moves with tryRise instead.
// Returns whether a move happened.
func (ctx *Context) tryFall(tick uint64, x, y int, elem content.Element) bool {
	gdx, gdy := gravitySign(ctx.Grid.GravityX, ctx.Grid.GravityY)
	if gdx == 0 && gdy == 0 {
		return false
	}
	straight, diagA, diagB := fallCandidates(x, y, gdx, gdy)
	if ctx.tryDisplace(x, y, elem.Density, straight[0], straight[1]) {
		return true
	}
	first, second := orderByParity(tick, x, diagA, diagB)
	if ctx.tryDisplace(x, y, elem.Density, first[0], first[1]) {
		return true
	}
	return ctx.tryDisplace(x, y, elem.Density, second[0], second[1])
}

// pickDisperseTarget implements the liquid/gas target-selection rule: go
// to the only reachable side if just one exists; prefer the cliff/chimney
// side if both are reachable and exactly one has the marker; otherwise
// choose uniformly at random.
func pickDisperseTarget(tick uint64, x, y int, left [2]int, leftFound, leftMarker bool, right [2]int, rightFound, rightMarker bool) ([2]int, bool) {
	switch {
	case leftFound && !rightFound:
		return left, true
	case rightFound && !leftFound:
		return right, true
	case leftFound && rightFound:
		switch {
		case leftMarker && !rightMarker:
			return left, true
		case rightMarker && !leftMarker:
			return right, true
		default:
			if rng.Bool(tick, x, y, rng.SaltLiquidTie) {
				return right, true
			}
			return left, true
		}
	default:
		return [2]int{}, false
	}
}
