package thermal

import (
	"testing"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
)

func newEngine(width, height int, elems ...content.Element) *Engine {
	bundle := &content.Bundle{}
	bundle.Elements = append(bundle.Elements, elems...)
	g := grid.New(width, height, 0, 20)
	chunks := chunk.New(width, height)
	// New chunks start Empty, which ForEachNonSleeping treats as visitable
	// (only Sleeping is skipped), so the thermal pass visits every chunk
	// without any of them being woken first.
	return &Engine{Grid: g, Elements: bundle.BuildElementTable(), Chunks: chunks}
}

func TestEmptyCellRelaxesTowardAmbient(t *testing.T) {
	e := newEngine(3, 3)
	e.Grid.AmbientTemp = 20
	e.Grid.SetTemperature(1, 1, 40)

	e.Step(0)

	got := e.Grid.TemperatureAt(1, 1)
	want := float32(40 + ambientRate*(20-40))
	if got != want {
		t.Errorf("temperature = %v, want %v", got, want)
	}
}

func TestEmptyCellBelowThresholdDoesNotChange(t *testing.T) {
	e := newEngine(3, 3)
	e.Grid.AmbientTemp = 20
	e.Grid.SetTemperature(1, 1, 20.3)

	e.Step(0)

	if got := e.Grid.TemperatureAt(1, 1); got != 20.3 {
		t.Errorf("temperature = %v, want unchanged 20.3 (within threshold)", got)
	}
}

func TestPhaseChangeOnHighThreshold(t *testing.T) {
	steam := content.Element{ID: 2, Key: "base:steam", Category: content.CategoryGas, ColorABGR: 0xFFAAAAAA}
	water := content.Element{
		ID: 1, Key: "base:water", Category: content.CategoryLiquid, HeatConductivity: 50,
		PhaseChange: &content.PhaseChange{High: &content.PhaseTarget{Temp: 100, To: 2}},
	}
	e := newEngine(3, 3, water, steam)
	e.Grid.SetParticle(1, 1, 1, 0, 0, 120)

	e.Step(0)

	if got := e.Grid.TypeAt(1, 1); got != 2 {
		t.Errorf("type = %d, want steam (2) after crossing high threshold", got)
	}
	// The thermal exchange against the (empty, ambient) neighbor runs
	// before the phase-change check, so the preserved temperature is the
	// post-exchange value, not the original 120: rate = (5/100)*0.5 =
	// 0.025, delta = 120-20 = 100, new = 120 - 100*0.025 = 117.5.
	if got := e.Grid.TemperatureAt(1, 1); got != 117.5 {
		t.Errorf("temperature after phase change = %v, want 117.5 (post-exchange, preserved)", got)
	}
}

func TestPhaseChangeOnLowThreshold(t *testing.T) {
	ice := content.Element{ID: 2, Key: "base:ice", Category: content.CategorySolid, ColorABGR: 0xFFFFFFFF}
	water := content.Element{
		ID: 1, Key: "base:water", Category: content.CategoryLiquid, HeatConductivity: 50,
		PhaseChange: &content.PhaseChange{Low: &content.PhaseTarget{Temp: 0, To: 2}},
	}
	e := newEngine(3, 3, water, ice)
	e.Grid.SetParticle(1, 1, 1, 0, 0, -10)

	e.Step(0)

	if got := e.Grid.TypeAt(1, 1); got != 2 {
		t.Errorf("type = %d, want ice (2) after crossing low threshold", got)
	}
}

func TestSkipsSleepingChunks(t *testing.T) {
	water := content.Element{ID: 1, Key: "base:water", Category: content.CategoryLiquid, HeatConductivity: 50}
	e := newEngine(64, 32, water)
	e.Grid.SetParticle(40, 0, 1, 0, 0, 500)
	e.Chunks.MarkDirty(40, 0)
	e.Chunks.EndTick(sleepCounter{}) // dirty tick: does not count as idle
	for i := 0; i < chunk.SleepAfterIdleTicks; i++ {
		e.Chunks.EndTick(sleepCounter{})
	}

	e.Step(0)

	if got := e.Grid.TemperatureAt(40, 0); got != 500 {
		t.Errorf("sleeping chunk's cell temperature changed: %v, want unchanged 500", got)
	}
}

type sleepCounter struct{}

func (sleepCounter) CountLive(x0, y0, x1, y1 int) int { return 1 }
