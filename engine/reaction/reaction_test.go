package reaction

import (
	"testing"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine/chunk"
	"github.com/kferrin/cellforge/engine/grid"
)

func newEngine(width, height int, reactions []content.Reaction, elems ...content.Element) *Engine {
	bundle := &content.Bundle{}
	bundle.Elements = append(bundle.Elements, elems...)
	bundle.Reactions = append(bundle.Reactions, reactions...)
	g := grid.New(width, height, 0, 20)
	return &Engine{
		Grid:     g,
		Elements: bundle.BuildElementTable(),
		LUT:      bundle.BuildReactionLUT(),
		Chunks:   chunk.New(width, height),
	}
}

// TestFireWaterProducesSteamAndDestroysFire exercises scenario S4: fire
// touching water is destroyed, the water becomes steam, at a 100% chance
// roll.
func TestFireWaterProducesSteamAndDestroysFire(t *testing.T) {
	fire := content.Element{ID: 1, Key: "base:fire", Category: content.CategoryEnergy, Behavior: "fire", ColorABGR: 0xFF0040FF}
	water := content.Element{ID: 2, Key: "base:water", Category: content.CategoryLiquid, ColorABGR: 0xFFFF8000}
	steam := content.Element{ID: 3, Key: "base:steam", Category: content.CategoryGas, ColorABGR: 0xFFAAAAAA}

	rule := content.Reaction{
		AggressorID:              1,
		VictimID:                 2,
		ResultAggressorDestroyed: true,
		ResultVictim:             3,
		Chance:                   1,
	}
	e := newEngine(3, 3, []content.Reaction{rule}, fire, water, steam)
	e.Grid.SetParticle(1, 1, 1, 0, 0, 500)
	e.Grid.SetParticle(1, 2, 2, 0, 0, 20)
	// Water on all four sides, so the rule fires whichever neighbor
	// Attempt draws.
	e.Grid.SetParticle(1, 0, 2, 0, 0, 20)
	e.Grid.SetParticle(0, 1, 2, 0, 0, 20)
	e.Grid.SetParticle(2, 1, 2, 0, 0, 20)

	e.Attempt(0, 1, 1)

	if got := e.Grid.TypeAt(1, 1); got != grid.EmptyType {
		t.Errorf("aggressor type = %d, want destroyed (empty)", got)
	}
	// Attempt draws one of the four neighbors at random and only that one
	// transforms. Scan all four for the steam.
	found := false
	for _, d := range neighborOffsets {
		nx, ny := 1+d[0], 1+d[1]
		if e.Grid.TypeAt(nx, ny) == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected some neighbor to become steam (3)")
	}
}

// TestReactionPicksStoredAggressorRegardlessOfWhichSideIsSelf verifies the
// LUT is consulted unordered: starting the attempt from the victim's side
// still applies the rule with the stored aggressor destroyed.
func TestReactionPicksStoredAggressorRegardlessOfWhichSideIsSelf(t *testing.T) {
	fire := content.Element{ID: 1, Key: "base:fire", Category: content.CategoryEnergy, ColorABGR: 0xFF0040FF}
	water := content.Element{ID: 2, Key: "base:water", Category: content.CategoryLiquid, ColorABGR: 0xFFFF8000}
	steam := content.Element{ID: 3, Key: "base:steam", Category: content.CategoryGas, ColorABGR: 0xFFAAAAAA}

	rule := content.Reaction{
		AggressorID:              1,
		VictimID:                 2,
		ResultAggressorDestroyed: true,
		ResultVictim:             3,
		Chance:                   1,
	}
	e := newEngine(3, 3, []content.Reaction{rule}, fire, water, steam)
	e.Grid.SetParticle(1, 1, 2, 0, 0, 20) // water is "self" this time
	e.Grid.SetParticle(1, 0, 1, 0, 0, 500)

	e.Attempt(0, 1, 1)

	if got := e.Grid.TypeAt(1, 1); got != 3 {
		t.Errorf("victim type = %d, want steam (3)", got)
	}
	if got := e.Grid.TypeAt(1, 0); got != grid.EmptyType {
		t.Errorf("aggressor type = %d, want destroyed (empty)", got)
	}
}

// TestChanceGatesReaction verifies a 0-chance rule never fires.
func TestChanceGatesReaction(t *testing.T) {
	a := content.Element{ID: 1, Key: "base:a", Category: content.CategorySolid}
	b := content.Element{ID: 2, Key: "base:b", Category: content.CategorySolid}
	rule := content.Reaction{AggressorID: 1, VictimID: 2, ResultVictimDestroyed: true, Chance: 0}
	e := newEngine(3, 3, []content.Reaction{rule}, a, b)
	e.Grid.SetParticle(1, 1, 1, 0, 0, 20)
	e.Grid.SetParticle(1, 2, 2, 0, 0, 20)

	for tick := uint64(0); tick < 20; tick++ {
		e.Attempt(tick, 1, 1)
	}

	if got := e.Grid.TypeAt(1, 2); got != 2 {
		t.Errorf("victim type = %d, want unchanged (2) since chance is 0", got)
	}
}

// TestSpawnPlacedAboveAggressorWhenEmpty verifies a reaction's spawn
// byproduct lands directly above the aggressor.
func TestSpawnPlacedAboveAggressorWhenEmpty(t *testing.T) {
	a := content.Element{ID: 1, Key: "base:a", Category: content.CategorySolid}
	b := content.Element{ID: 2, Key: "base:b", Category: content.CategorySolid}
	smoke := content.Element{ID: 3, Key: "base:smoke", Category: content.CategoryGas}
	rule := content.Reaction{
		AggressorID: 1, VictimID: 2,
		ResultAggressorUnchanged: true, ResultVictim: 2,
		HasSpawn: true, Spawn: 3,
		Chance: 1,
	}
	e := newEngine(3, 3, []content.Reaction{rule}, a, b, smoke)
	e.Grid.SetParticle(1, 1, 1, 0, 0, 20)
	e.Grid.SetParticle(1, 2, 2, 0, 0, 20)

	// Attempt draws one neighbor at random per tick and only the victim
	// below can react, so attempt on successive ticks until the spawn lands.
	for tick := uint64(0); tick < 20 && e.Grid.TypeAt(1, 0) != 3; tick++ {
		e.Attempt(tick, 1, 1)
	}

	if got := e.Grid.TypeAt(1, 0); got != 3 {
		t.Errorf("cell above aggressor = %d, want spawned smoke (3)", got)
	}
}

// TestNoReactionWithEmptyNeighbor verifies Attempt is a no-op when the
// randomly chosen neighbor slot happens to be empty on all four sides.
func TestNoReactionWithEmptyNeighbor(t *testing.T) {
	a := content.Element{ID: 1, Key: "base:a", Category: content.CategorySolid}
	e := newEngine(3, 3, nil, a)
	e.Grid.SetParticle(1, 1, 1, 0, 0, 20)

	e.Attempt(0, 1, 1)

	if got := e.Grid.TypeAt(1, 1); got != 1 {
		t.Errorf("type = %d, want unchanged (1)", got)
	}
}
