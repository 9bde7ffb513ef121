package behavior

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/rng"
)

// energyStep dispatches among the energy-category behaviors by the
// element's behavior tag. Spark and electricity do not move: they are
// consumed only by lifetime expiry and by reactions with conductors or
// water, so they fall through to a no-op here.
func (ctx *Context) energyStep(tick uint64, x, y int, elem content.Element) {
	if elem.Behavior == "fire" {
		ctx.fireStep(tick, x, y, elem)
	}
}

// fireStep rises with jitter: each tick, pick randomly among up,
// up-left, up-right, and move only if the chosen cell is empty. Fire's
// lifetime-driven removal is handled by the sweep, not here.
func (ctx *Context) fireStep(tick uint64, x, y int, elem content.Element) {
	candidates := [3][2]int{
		{x, y - 1},
		{x - 1, y - 1},
		{x + 1, y - 1},
	}
	pick := candidates[rng.IntN(tick, x, y, rng.SaltFireJitter, 3)]
	if !ctx.Grid.InBounds(pick[0], pick[1]) || !ctx.Grid.IsEmpty(pick[0], pick[1]) {
		return
	}
	ctx.Grid.Swap(x, y, pick[0], pick[1])
	ctx.Chunks.MarkDirty(x, y)
	ctx.Chunks.MarkDirty(pick[0], pick[1])
}
