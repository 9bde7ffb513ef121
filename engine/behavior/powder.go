package behavior

import "github.com/kferrin/cellforge/content"

// powderStep tries straight in the gravity direction, then both diagonals
// in the gravity direction, order chosen by randomDir. A powder that
// cannot displace in any of the three candidates rests.
func (ctx *Context) powderStep(tick uint64, x, y int, elem content.Element) {
	gdx, gdy := gravitySign(ctx.Grid.GravityX, ctx.Grid.GravityY)
	if gdx == 0 && gdy == 0 {
		return
	}

	straight, diagA, diagB := fallCandidates(x, y, gdx, gdy)

	if ctx.tryDisplace(x, y, elem.Density, straight[0], straight[1]) {
		return
	}
	first, second := orderByParity(tick, x, diagA, diagB)
	if ctx.tryDisplace(x, y, elem.Density, first[0], first[1]) {
		return
	}
	ctx.tryDisplace(x, y, elem.Density, second[0], second[1])
}

// gravitySign returns the sign-only gravity direction.
func gravitySign(gx, gy float32) (dx, dy int) {
	return signOf(gx), signOf(gy)
}

func signOf(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// fallCandidates returns the straight-ahead cell and the two diagonal
// cells along the dominant gravity axis. Vertical gravity (gdy != 0, the
// common case) perturbs x by +/-1; purely horizontal gravity perturbs y
// instead.
func fallCandidates(x, y, gdx, gdy int) (straight, diagA, diagB [2]int) {
	if gdy != 0 {
		straight = [2]int{x, y + gdy}
		diagA = [2]int{x - 1, y + gdy}
		diagB = [2]int{x + 1, y + gdy}
		return
	}
	straight = [2]int{x + gdx, y}
	diagA = [2]int{x + gdx, y - 1}
	diagB = [2]int{x + gdx, y + 1}
	return
}
