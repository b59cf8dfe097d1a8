// Package theme holds the color scheme used by the built-in render
// systems and the color math for overlay blending.
package theme

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keel/internal/render"
)

// Theme is the registry-held color scheme.
type Theme struct {
	Foreground render.Color
	Background render.Color
	Accent     render.Color
	Selection  render.Color
	Dim        render.Color
}

// Default returns the built-in scheme.
func Default() *Theme {
	return &Theme{
		Foreground: render.RGB(0xd8, 0xd8, 0xd8),
		Background: render.RGB(0x18, 0x18, 0x20),
		Accent:     render.RGB(0x7a, 0xa2, 0xf7),
		Selection:  render.RGB(0x28, 0x28, 0x38),
		Dim:        render.RGB(0x60, 0x60, 0x70),
	}
}

// Text returns the default text style.
func (t *Theme) Text() render.Style {
	return render.Style{FG: t.Foreground, BG: t.Background}
}

// Status returns the statusline style.
func (t *Theme) Status() render.Style {
	return render.Style{FG: t.Background, BG: t.Accent, Bold: true}
}

// SelectionStyle returns the text style blended toward the selection
// color, used by the selection overlay.
func (t *Theme) SelectionStyle() render.Style {
	return render.Style{FG: t.Foreground, BG: Blend(t.Background, t.Selection, 0.7)}
}

// DimText returns the de-emphasized text style.
func (t *Theme) DimText() render.Style {
	return render.Style{FG: t.Dim, BG: t.Background}
}

// Blend mixes two colors in a perceptually even space.
func Blend(a, b render.Color, amount float64) render.Color {
	if !a.Valid {
		return b
	}
	if !b.Valid {
		return a
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	m := ca.BlendLuv(cb, amount).Clamped()
	return render.RGB(uint8(m.R*255), uint8(m.G*255), uint8(m.B*255))
}

// CursorShapeFor maps a mode tag to its cursor shape: a bar in insert
// mode, an underline in command-line mode, a block otherwise.
func CursorShapeFor(mode rune) render.CursorShape {
	switch mode {
	case 'i':
		return render.CursorBar
	case 'c':
		return render.CursorUnderline
	default:
		return render.CursorBlock
	}
}
