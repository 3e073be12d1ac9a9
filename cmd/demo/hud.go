package main

import (
	"fmt"

	"renderlib/math"
	"renderlib/renderer"
)

// HUD draws lines of debug text in the top-left corner, one Text per line
// since text is laid out on a single line.
type HUD struct {
	r     *renderer.Renderer
	font  *renderer.Font
	lines []*renderer.Text
	props *renderer.TextRenderProps
	used  int
}

func NewHUD(r *renderer.Renderer, font *renderer.Font) *HUD {
	props := renderer.NewTextRenderProps()
	props.SetColor(math.NewVec(1, 1, 1, 1))
	props.SetOpacity(0.9)
	return &HUD{r: r, font: font, props: props}
}

// AddLine sets the next line of this frame.
func (h *HUD) AddLine(format string, args ...any) error {
	if h.used == len(h.lines) {
		t, err := h.r.NewText(h.font)
		if err != nil {
			return fmt.Errorf("hud line: %w", err)
		}
		h.lines = append(h.lines, t)
	}
	t := h.lines[h.used]
	h.used++
	if err := t.SetStringf(format, args...); err != nil {
		return fmt.Errorf("hud line %d: %w", h.used, err)
	}
	return nil
}

// Render draws the lines added since the last Render, top to bottom, in a
// pixel-space projection of width x height.
func (h *HUD) Render(width, height int) error {
	h.props.SetProjection(math.Ortho(0, float32(width), 0, float32(height), -1, 1))
	y := float32(height) - 8
	for _, t := range h.lines[:h.used] {
		y -= float32(t.Height())
		h.props.SetModel(math.Translation(math.Vec3(8, y, 0)))
		if err := h.r.RenderText(t, h.props); err != nil {
			return err
		}
		y -= 2
	}
	h.used = 0
	return nil
}

func (h *HUD) Close() {
	for _, t := range h.lines {
		t.Close()
	}
	h.props.Close()
}
