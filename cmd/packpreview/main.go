// Command packpreview is an interactive tuning tool: pick one element
// from a compiled Bundle and drag its dispersion, density, and heat
// conductivity with raygui sliders while watching it fall and spread in
// a small live World. Every slider change re-marshals the Bundle and
// reloads it into the World, so the preview always reflects exactly what
// a real load would produce.
//
// Usage: go run ./cmd/packpreview -bundle path/to/bundle.json -element pack:name
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine"
)

const (
	windowWidth  = 900
	windowHeight = 640
	previewSize  = 512
	gridSize     = 96
	panelX       = previewSize + 20
)

func main() {
	bundlePath := flag.String("bundle", "", "compiled Bundle JSON path")
	elementKey := flag.String("element", "", "qualified pack:name element key to tune")
	flag.Parse()

	if *bundlePath == "" || *elementKey == "" {
		log.Fatal("-bundle and -element are required")
	}

	data, err := os.ReadFile(*bundlePath)
	if err != nil {
		log.Fatalf("read bundle: %v", err)
	}
	bundle := &content.Bundle{}
	if err := bundle.UnmarshalJSON(data); err != nil {
		log.Fatalf("parse bundle: %v", err)
	}
	id, ok := bundle.ElementKeyToID[*elementKey]
	if !ok {
		log.Fatalf("element %q not found in bundle", *elementKey)
	}
	idx := -1
	for i, e := range bundle.Elements {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Fatalf("element id %d not present in element list", id)
	}

	rl.InitWindow(windowWidth, windowHeight, "cellforge pack preview: "+*elementKey)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)
	pixels := make([]color.RGBA, gridSize*gridSize)

	w, err := reloadWorld(bundle)
	if err != nil {
		log.Fatalf("load bundle into world: %v", err)
	}
	seedFloor(w, bundle)

	spawnCooldown := 0

	for !rl.WindowShouldClose() {
		if spawnCooldown <= 0 {
			w.AddParticle(gridSize/2, 2, id)
			spawnCooldown = 8
		}
		spawnCooldown--
		w.Step()

		uploadFramebuffer(w, pixels)
		rl.UpdateTexture(tex, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(tex,
			rl.Rectangle{Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{}, 0, rl.White)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		changed := drawSliders(&bundle.Elements[idx])
		if changed {
			w, err = reloadWorld(bundle)
			if err != nil {
				log.Printf("reload after slider change: %v", err)
			} else {
				seedFloor(w, bundle)
			}
		}

		rl.EndDrawing()
	}
}

// reloadWorld builds a fresh World from the current in-memory Bundle.
// Re-marshaling and reloading on every tuning change (rather than poking
// the element table directly) keeps the preview honest: it only ever
// shows what engine.World.LoadBundle would actually produce.
func reloadWorld(bundle *content.Bundle) (*engine.World, error) {
	data, err := bundle.MarshalJSON()
	if err != nil {
		return nil, err
	}
	w := engine.New(gridSize, gridSize)
	if err := w.LoadBundle(data); err != nil {
		return nil, err
	}
	return w, nil
}

// seedFloor stamps a one-cell-deep rigid floor across the bottom row
// using the first solid element in the bundle, if any, so the tuned
// element has something to pile up on instead of falling off-grid.
func seedFloor(w *engine.World, bundle *content.Bundle) {
	for _, e := range bundle.Elements {
		if e.Category == content.CategorySolid {
			w.SpawnRigidBody(0, gridSize-1, gridSize, 1, e.ID)
			return
		}
	}
}

func uploadFramebuffer(w *engine.World, pixels []color.RGBA) {
	_, colors, _ := w.FramebufferPointers()
	for i, abgr := range colors {
		pixels[i] = color.RGBA{
			R: uint8(abgr),
			G: uint8(abgr >> 8),
			B: uint8(abgr >> 16),
			A: uint8(abgr >> 24),
		}
	}
}

// drawSliders renders the dispersion/density/conductivity panel and
// mutates elem in place, reporting whether any slider value changed.
func drawSliders(elem *content.Element) bool {
	y := float32(20)
	changed := false

	rl.DrawText(fmt.Sprintf("Tuning: %s", elem.Key), panelX, int32(y), 20, rl.DarkGray)
	y += 35

	y, c := slider(panelX, y, "Dispersion", 0, 255, &elem.Dispersion)
	changed = changed || c
	y, c = sliderFloat(panelX, y, "Density", 0, 3000, &elem.Density)
	changed = changed || c
	_, c = slider(panelX, y, "Heat conductivity", 0, 255, &elem.HeatConductivity)
	changed = changed || c

	return changed
}

func slider(x float32, y float32, label string, lo, hi float32, target *uint8) (float32, bool) {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	newVal := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: windowWidth - x - 90, Height: 20},
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		float32(*target), lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.0f", newVal), int32(windowWidth-70), int32(y+2), 16, rl.DarkGray)
	changed := uint8(newVal) != *target
	*target = uint8(newVal)
	return y + 35, changed
}

func sliderFloat(x float32, y float32, label string, lo, hi float32, target *float32) (float32, bool) {
	if *target == content.DensityInfinity {
		rl.DrawText(label+" (infinite — not tunable)", int32(x), int32(y), 14, rl.Gray)
		return y + 53, false
	}
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	newVal := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: windowWidth - x - 90, Height: 20},
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		*target, lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.0f", newVal), int32(windowWidth-70), int32(y+2), 16, rl.DarkGray)
	changed := newVal != *target
	*target = newVal
	return y + 35, changed
}
