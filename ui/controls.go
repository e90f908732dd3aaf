// Package ui renders the parameter panel and HUD chrome around the
// simulation view.
package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/systems"
)

// ParamsPanel renders one slider per entry of the parameter schema and
// routes edits through Engine.SetParameter, which owns clamping and the
// structural handling of count changes.
type ParamsPanel struct {
	x, y    int32
	width   int32
	visible bool
}

// NewParamsPanel creates a parameter panel at the given position.
func NewParamsPanel(x, y, width int32) *ParamsPanel {
	return &ParamsPanel{x: x, y: y, width: width}
}

// Toggle switches panel visibility and returns the new state.
func (p *ParamsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *ParamsPanel) IsVisible() bool {
	return p.visible
}

// Draw renders the panel and applies any slider edits to the engine.
func (p *ParamsPanel) Draw(engine *systems.Engine) {
	if !p.visible {
		return
	}

	const (
		lineHeight  = 26
		padding     = 10
		labelWidth  = 150
		valueWidth  = 54
		buttonWidth = 70
	)

	schema := systems.ParamSchema()
	panelHeight := int32(len(schema))*lineHeight + padding*3 + lineHeight

	rl.DrawRectangle(p.x, p.y, p.width, panelHeight, rl.Color{R: 20, G: 20, B: 30, A: 220})
	rl.DrawRectangleLines(p.x, p.y, p.width, panelHeight, rl.Gray)

	y := p.y + padding

	// Lifecycle buttons
	bx := p.x + padding
	by := float32(y)
	if gui.Button(rl.Rectangle{X: float32(bx), Y: by, Width: buttonWidth, Height: 20}, "Start") {
		engine.Start()
	}
	if gui.Button(rl.Rectangle{X: float32(bx) + buttonWidth + 6, Y: by, Width: buttonWidth, Height: 20}, "Stop") {
		engine.Stop()
	}
	if gui.Button(rl.Rectangle{X: float32(bx) + (buttonWidth+6)*2, Y: by, Width: buttonWidth, Height: 20}, "Reset") {
		engine.Reset()
	}
	y += lineHeight

	sliderX := float32(p.x + padding + labelWidth)
	sliderW := float32(p.width - padding*2 - labelWidth - valueWidth)

	for _, spec := range schema {
		rl.DrawText(spec.Label, p.x+padding, y+3, 10, rl.RayWhite)

		value := engine.Parameter(spec.Key)
		bounds := rl.Rectangle{X: sliderX, Y: float32(y), Width: sliderW, Height: 16}
		edited := gui.Slider(bounds, "", fmt.Sprintf("%.2f", value), value, spec.Min, spec.Max)

		if edited != value {
			engine.SetParameter(spec.Key, snapToStep(edited, spec))
		}

		y += lineHeight
	}
}

// snapToStep quantizes a slider value to the schema step size.
func snapToStep(v float32, spec systems.ParamSpec) float32 {
	if spec.Step <= 0 {
		return v
	}
	steps := math.Round(float64((v - spec.Min) / spec.Step))
	return spec.Min + float32(steps)*spec.Step
}
