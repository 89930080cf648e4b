package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/sightline/grid"
)

// Lit-cell palette endpoints. Floor brightness fades with distance from the
// observer; walls stay fully lit whenever they are in view.
var (
	floorLit  = colorful.Color{R: 0.85, G: 0.85, B: 0.75}
	floorDark = colorful.Color{R: 0.25, G: 0.25, B: 0.30}
	wallLit   = colorful.Color{R: 0.35, G: 0.80, B: 0.35}
)

// Renderer draws a grid map and its visibility state to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the map: visible cells lit with distance falloff, remembered
// (seen but not currently visible) cells dim, everything else blank. The
// observer is drawn last as '@'.
func (r *Renderer) Render(m *grid.Map, originX, originY, viewRange int) {
	r.screen.Clear()

	rememberedStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			switch {
			case m.IsVisible(x, y):
				r.screen.SetContent(x, y, cellRune(m, x, y), r.litStyle(m, x, y, originX, originY, viewRange))
			case m.WasSeen(x, y):
				r.screen.SetContent(x, y, cellRune(m, x, y), rememberedStyle)
			}
		}
	}

	if m.IsInBounds(originX, originY) {
		originStyle := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		r.screen.SetContent(originX, originY, '@', originStyle)
	}

	r.renderStatus(m, viewRange)
	r.screen.Show()
}

// litStyle returns the style for a currently visible cell.
func (r *Renderer) litStyle(m *grid.Map, x, y, originX, originY, viewRange int) tcell.Style {
	if m.IsOpaque(x, y) {
		return tcell.StyleDefault.Foreground(toTcell(wallLit))
	}

	// Fade floor cells from lit to dark across the view range.
	t := 0.0
	if viewRange > 0 {
		t = m.Distance(originX, originY, x, y) / float64(viewRange)
		if t > 1 {
			t = 1
		}
	}
	return tcell.StyleDefault.Foreground(toTcell(floorLit.BlendLab(floorDark, t)))
}

// renderStatus draws the help line below the map.
func (r *Renderer) renderStatus(m *grid.Map, viewRange int) {
	rangeText := fmt.Sprintf("%d", viewRange)
	if viewRange < 0 {
		rangeText = "unlimited"
	}
	msg := fmt.Sprintf("range %s | move: mouse/arrows | click: toggle wall | wheel/+/-: range | u: unlimited | r: random | p: preset | q: quit", rangeText)

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range msg {
		r.screen.SetContent(i, m.Height(), ch, style)
	}
}

func cellRune(m *grid.Map, x, y int) rune {
	if m.IsOpaque(x, y) {
		return '#'
	}
	return '.'
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
