package behavior

import (
	"strings"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// bioSeedDensity is the fixed fall density used for Bio/Seed, independent
// of the element's declared density field (pinned per DESIGN.md).
const bioSeedDensity = 1100

// bioStep dispatches Seed and Plant, the two bio behaviors.
func (ctx *Context) bioStep(tick uint64, x, y int, elem content.Element) {
	switch elem.Behavior {
	case "seed":
		ctx.seedStep(tick, x, y, elem)
	case "plant":
		ctx.plantStep(tick, x, y, elem)
	}
}

// seedStep germinates in place when the cell below is soil and a water
// neighbor is present, otherwise falls like a powder at a fixed density.
func (ctx *Context) seedStep(tick uint64, x, y int, elem content.Element) {
	if ctx.tryGerminate(tick, x, y, elem) {
		return
	}
	gdx, gdy := gravitySign(ctx.Grid.GravityX, ctx.Grid.GravityY)
	if gdx == 0 && gdy == 0 {
		return
	}
	straight, diagA, diagB := fallCandidates(x, y, gdx, gdy)
	if ctx.tryDisplace(x, y, bioSeedDensity, straight[0], straight[1]) {
		return
	}
	first, second := orderByParity(tick, x, diagA, diagB)
	if ctx.tryDisplace(x, y, bioSeedDensity, first[0], first[1]) {
		return
	}
	ctx.tryDisplace(x, y, bioSeedDensity, second[0], second[1])
}

// tryGerminate transforms the seed into its pack's "plant" element when
// the cell directly below is dirt or sand and any of the eight neighbors
// is water. Soil and water are identified by element key name, not a
// structural flag, since elements carry no "is soil"/"is water" bit. The
// companion plant element is resolved as "<seed's pack>:plant", the
// simplest convention consistent with seed and plant living in the same
// pack.
func (ctx *Context) tryGerminate(tick uint64, x, y int, elem content.Element) bool {
	below, ok := ctx.Elements.Get(content.ElementID(ctx.Grid.TypeAt(x, y+1)))
	if !ok || !(isKeyNamed(below.Key, "dirt") || isKeyNamed(below.Key, "sand")) {
		return false
	}
	if !ctx.has8NeighborNamed(x, y, "water") {
		return false
	}
	plant, ok := ctx.Bundle.ElementByKey(packOf(elem.Key) + ":plant")
	if !ok {
		return false
	}
	ctx.transformInPlace(tick, x, y, plant)
	return true
}

// plantStep grows stochastically: at a 5% chance per tick, search a 7x7
// window for water; if found, consume it and place a new plant cell in
// one of the three upward cells with probabilities 0.6/0.2/0.2.
// Temperature below 0 halts growth; above 150 kills the plant.
func (ctx *Context) plantStep(tick uint64, x, y int, elem content.Element) {
	temp := ctx.Grid.TemperatureAt(x, y)
	if temp > 150 {
		ctx.Grid.ClearCell(x, y, true)
		ctx.Chunks.MarkDirty(x, y)
		return
	}
	if temp < 0 {
		return
	}
	if rng.Float32(tick, x, y, rng.SaltPlantGrowth) >= 0.05 {
		return
	}
	wx, wy, found := ctx.findWaterIn7x7(x, y)
	if !found {
		return
	}
	ctx.Grid.ClearCell(wx, wy, false)
	ctx.Grid.MarkUpdated(wx, wy)
	ctx.Chunks.MarkDirty(wx, wy)

	candidates := [3][2]int{{x, y - 1}, {x - 1, y - 1}, {x + 1, y - 1}}
	roll := rng.Float32(tick, x, y, rng.SaltPlantTarget)
	idx := 0
	switch {
	case roll < 0.6:
		idx = 0
	case roll < 0.8:
		idx = 1
	default:
		idx = 2
	}
	tx, ty := candidates[idx][0], candidates[idx][1]
	ctx.spawnAt(tick, tx, ty, elem)
}

// has8NeighborNamed reports whether any of the eight neighbors of (x, y)
// is named name.
func (ctx *Context) has8NeighborNamed(x, y int, name string) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if ctx.cellNamed(x+dx, y+dy, name) {
				return true
			}
		}
	}
	return false
}

// findWaterIn7x7 scans a 7x7 window centered on (x, y) in raster order
// (top-to-bottom, left-to-right) for the first water cell, a deterministic
// tie-break so the search itself needs no random draw.
func (ctx *Context) findWaterIn7x7(x, y int) (int, int, bool) {
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			nx, ny := x+dx, y+dy
			if ctx.cellNamed(nx, ny, "water") {
				return nx, ny, true
			}
		}
	}
	return 0, 0, false
}

func (ctx *Context) cellNamed(x, y int, name string) bool {
	if !ctx.Grid.InBounds(x, y) {
		return false
	}
	t := ctx.Grid.TypeAt(x, y)
	if t == grid.EmptyType {
		return false
	}
	e, ok := ctx.Elements.Get(content.ElementID(t))
	return ok && isKeyNamed(e.Key, name)
}

// packOf returns the pack ID portion of a "pack:name" element key.
func packOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// isKeyNamed reports whether key's name portion (after "pack:") equals
// name.
func isKeyNamed(key, name string) bool {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:] == name
	}
	return key == name
}
