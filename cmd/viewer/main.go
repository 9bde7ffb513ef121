// Command viewer opens a window and steps a World continuously, uploading
// its color framebuffer to a GPU texture every frame. Input is plain
// mouse/keyboard polling rather than the shared-input ring — the ring
// exists for a cross-thread host shell, and a single-process viewer has
// no second thread to feed it from.
package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engine"
	"github.com/kferrin/cellforge/engine/brush"
)

func main() {
	bundlePath := flag.String("bundle", "", "compiled Bundle JSON path")
	width := flag.Int("width", 256, "grid width")
	height := flag.Int("height", 256, "grid height")
	scale := flag.Int("scale", 3, "pixels per cell")
	flag.Parse()

	if *bundlePath == "" {
		log.Fatal("-bundle is required")
	}
	bundleData, err := os.ReadFile(*bundlePath)
	if err != nil {
		log.Fatalf("read bundle: %v", err)
	}

	w := engine.New(*width, *height)
	if err := w.LoadBundle(bundleData); err != nil {
		log.Fatalf("load bundle: %v", err)
	}

	screenW, screenH := int32(*width**scale), int32(*height**scale)
	rl.InitWindow(screenW, screenH, "cellforge viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(*width, *height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	pixels := make([]color.RGBA, *width**height)
	brushElement := content.ElementID(1)
	brushRadius := 3
	paused := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		handleMouseInput(w, *scale, &brushElement, brushRadius)

		if !paused {
			w.Step()
		}

		uploadFramebuffer(w, pixels)
		rl.UpdateTexture(tex, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.DrawTexturePro(tex,
			rl.Rectangle{Width: float32(*width), Height: float32(*height)},
			rl.Rectangle{Width: float32(screenW), Height: float32(screenH)},
			rl.Vector2{}, 0, rl.White)
		rl.DrawFPS(4, 4)
		rl.EndDrawing()
	}
}

// uploadFramebuffer converts the world's packed ABGR color array into the
// RGBA pixel buffer raylib's UpdateTexture expects.
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

// handleMouseInput paints brushElement in a disk of brushRadius at the
// mouse position while the left button is held, and erases while the
// right button is held.
func handleMouseInput(w *engine.World, scale int, brushElement *content.ElementID, brushRadius int) {
	pos := rl.GetMousePosition()
	cx, cy := int(pos.X)/scale, int(pos.Y)/scale

	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		w.Brush.Add(w.Tick(), cx, cy, brushRadius, brush.ShapeCircle, *brushElement)
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		w.Brush.Erase(cx, cy, brushRadius, brush.ShapeCircle)
	default:
		w.Brush.EndStroke()
	}
}
