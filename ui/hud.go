package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDState is the per-frame data the HUD displays.
type HUDState struct {
	Tick          int32
	EmitterActive int
	FluidCount    int
	Paused        bool
	Running       bool
}

// DrawHUD renders the status lines in the top-left corner.
func DrawHUD(s HUDState) {
	rl.DrawText(fmt.Sprintf("Tick: %d  FPS: %d", s.Tick, rl.GetFPS()), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Spray: %d  Fluid: %d", s.EmitterActive, s.FluidCount), 10, 35, 20, rl.White)
	rl.DrawText("[Space] pause  [Tab] params  [R] reset  [LMB] interact", 10, 60, 10, rl.LightGray)

	if s.Paused {
		rl.DrawText("PAUSED", 10, 80, 20, rl.Yellow)
	} else if !s.Running {
		rl.DrawText("STOPPED", 10, 80, 20, rl.Orange)
	}
}
