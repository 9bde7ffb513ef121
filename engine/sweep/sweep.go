// Package sweep implements the per-tick cell visitation order:
// gravity-aware row direction, tick-parity column alternation, and the
// per-cell skip/dispatch gate that the chunk manager and the updated-flag
// array feed into.
package sweep

import "github.com/kferrin/cellforge/engine/chunk"

// Cell is the minimal surface the scheduler needs to gate and dispatch a
// cell update. engine.World's grid wrapper implements this so the sweep
// package stays free of a direct engine/grid dependency, matching
// engine/chunk's LiveCounter pattern.
type Cell interface {
	// TypeAt returns 0 for empty.
	TypeAt(x, y int) uint8
	IsUpdated(x, y int) bool
	// Visit is called exactly once per live, non-updated, non-sleeping
	// cell in sweep order. Implementations mark updated, decrement
	// lifetime, dispatch the category behavior, and attempt a reaction.
	Visit(x, y int)
}

// Direction picks the row and column order for one tick from the gravity
// sign and the tick parity.
type Direction struct {
	RowBottomToTop bool
	ColLeftToRight bool
}

// Choose computes the sweep direction for this tick. gy is gravity's
// vertical component; rows sweep bottom-to-top when gy >= 0 (particles
// fall down, so lower rows must clear first) and top-to-bottom otherwise.
// Columns alternate left-to-right / right-to-left by tick parity to
// suppress handedness bias in liquid and powder spreading.
func Choose(tick uint64, gy float32) Direction {
	return Direction{
		RowBottomToTop: gy >= 0,
		ColLeftToRight: tick%2 == 0,
	}
}

// Run visits every cell of a width x height grid in the chosen direction,
// skipping empty cells, sleeping chunks, and already-updated cells. chunks
// reports sleep state per cell; cells carries out the actual per-cell work.
func Run(width, height int, dir Direction, chunks *chunk.Manager, cells Cell) {
	rowStart, rowEnd, rowStep := 0, height, 1
	if dir.RowBottomToTop {
		rowStart, rowEnd, rowStep = height-1, -1, -1
	}
	colStart, colEnd, colStep := 0, width, 1
	if !dir.ColLeftToRight {
		colStart, colEnd, colStep = width-1, -1, -1
	}

	for y := rowStart; y != rowEnd; y += rowStep {
		for x := colStart; x != colEnd; x += colStep {
			if cells.TypeAt(x, y) == 0 {
				continue
			}
			if chunks.IsSleeping(x, y) {
				continue
			}
			if cells.IsUpdated(x, y) {
				continue
			}
			cells.Visit(x, y)
		}
	}
}
