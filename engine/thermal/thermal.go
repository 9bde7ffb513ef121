// Package thermal implements the stochastic heat-diffusion and
// phase-change pass that runs every other tick across every non-sleeping
// cell: a random-neighbor pairwise exchange plus an ambient relaxation
// term for empty cells.
package thermal

import (
	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
	"github.com/kferrin/cellforge/engine/rng"
)

// ambientRate is the relaxation coefficient used both for empty-cell
// ambient relaxation and for a particle's heat leak off the grid edge.
const ambientRate = 0.02

// ambientThreshold is the minimum |ambient-T| (or |ΔT| for a neighbor
// exchange) below which no adjustment happens, avoiding endless
// fractional churn.
const ambientThreshold = 0.5

// emptyConductivity is the heat conductivity attributed to empty cells
// for neighbor-exchange purposes.
const emptyConductivity = 5

// Engine runs the thermal pass over a grid.
type Engine struct {
	Grid     *grid.Grid
	Elements *content.ElementTable
	Chunks   *chunk.Manager
}

// Step runs one thermal pass: ambient relaxation for empty cells, a
// random-neighbor heat exchange for live cells, and a phase-change check
// after each live cell's temperature is updated.
func (e *Engine) Step(tick uint64) {
	e.Chunks.ForEachNonSleeping(func(_, _, x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				e.stepCell(tick, x, y)
			}
		}
	})
}

func (e *Engine) stepCell(tick uint64, x, y int) {
	typ := e.Grid.TypeAt(x, y)
	if typ == grid.EmptyType {
		e.relaxEmpty(x, y)
		return
	}

	elem, ok := e.Elements.Get(content.ElementID(typ))
	if !ok {
		return
	}

	nx, ny := e.pickNeighbor(tick, x, y)
	if !e.Grid.InBounds(nx, ny) {
		e.leakToAmbient(x, y)
	} else {
		e.exchange(x, y, elem, nx, ny)
	}

	e.checkPhaseChange(x, y, elem)
}

// relaxEmpty nudges an empty cell's temperature toward ambient.
func (e *Engine) relaxEmpty(x, y int) {
	t := e.Grid.TemperatureAt(x, y)
	ambient := e.Grid.AmbientTemp
	if abs32(ambient-t) <= ambientThreshold {
		return
	}
	e.Grid.SetTemperature(x, y, t+ambientRate*(ambient-t))
}

// pickNeighbor chooses one random orthogonal neighbor.
func (e *Engine) pickNeighbor(tick uint64, x, y int) (int, int) {
	dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	d := dirs[rng.IntN(tick, x, y, rng.SaltThermalNeighbor, 4)]
	return x + d[0], y + d[1]
}

// leakToAmbient is used when the random neighbor fell outside the grid:
// the cell leaks a small fraction of heat to ambient at the same rate
// used for empty-cell relaxation.
func (e *Engine) leakToAmbient(x, y int) {
	t := e.Grid.TemperatureAt(x, y)
	ambient := e.Grid.AmbientTemp
	e.Grid.SetTemperature(x, y, t+ambientRate*(ambient-t))
}

// exchange transfers heat symmetrically between (x, y) and its chosen
// neighbor at a rate derived from the self element's conductivity.
func (e *Engine) exchange(x, y int, elem content.Element, nx, ny int) {
	selfT := e.Grid.TemperatureAt(x, y)
	neighborT := e.Grid.TemperatureAt(nx, ny)
	delta := selfT - neighborT
	if abs32(delta) < ambientThreshold {
		return
	}

	conductivity := float32(elem.HeatConductivity)
	if e.Grid.TypeAt(nx, ny) == grid.EmptyType {
		conductivity = emptyConductivity
	}
	rate := (conductivity / 100) * 0.5

	e.Grid.SetTemperature(x, y, selfT-delta*rate)
	e.Grid.SetTemperature(nx, ny, neighborT+delta*rate)
}

// checkPhaseChange transforms the cell at (x, y) when its (possibly just
// updated) temperature crosses a phase-change threshold, preserving
// temperature across the transform and marking the chunk dirty.
func (e *Engine) checkPhaseChange(x, y int, elem content.Element) {
	if elem.PhaseChange == nil {
		return
	}
	t := e.Grid.TemperatureAt(x, y)
	var target content.ElementID
	switch {
	case elem.PhaseChange.High != nil && t > elem.PhaseChange.High.Temp:
		target = elem.PhaseChange.High.To
	case elem.PhaseChange.Low != nil && t < elem.PhaseChange.Low.Temp:
		target = elem.PhaseChange.Low.To
	default:
		return
	}
	newElem, ok := e.Elements.Get(target)
	if !ok {
		return
	}
	e.Grid.SetParticle(x, y, uint8(target), newElem.ColorABGR, newElem.Lifetime, t)
	e.Chunks.MarkDirty(x, y)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
