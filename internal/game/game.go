// Package game provides the interactive field-of-view demo loop.
package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/sightline/fov"
	"github.com/samdwyer/sightline/grid"
	"github.com/samdwyer/sightline/internal/preset"
	"github.com/samdwyer/sightline/internal/telemetry"
	"github.com/samdwyer/sightline/internal/ui"
)

// Game holds the demo state: one map, one observer.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	grid     *grid.Map
	rng      *rand.Rand

	originX, originY int
	viewRange        int
	savedRange       int // last finite range, restored when unlimited is toggled off

	presets   []preset.Preset
	presetIdx int

	lastButtons tcell.ButtonMask
	running     bool
}

// New creates a new demo instance.
func New(cfg Config) (*Game, error) {
	cfg = cfg.withDefaults()

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	presets, err := preset.All()
	if err != nil {
		screen.Close()
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Game{
		cfg:        cfg,
		screen:     screen,
		renderer:   ui.NewRenderer(screen),
		rng:        rand.New(rand.NewSource(seed)),
		viewRange:  cfg.ViewRange,
		savedRange: cfg.ViewRange,
		presets:    presets,
		presetIdx:  -1,
		running:    true,
	}, nil
}

// Run executes the main demo loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")

	g.grid = grid.NewMap(g.cfg.Width, g.cfg.Height)
	g.grid.RandomizeWalls(g.rng, g.cfg.WallCount)
	g.originX = g.cfg.Width / 2
	g.originY = g.cfg.Height / 2

	initSpan.SetAttributes(
		attribute.Int("map.width", g.cfg.Width),
		attribute.Int("map.height", g.cfg.Height),
		attribute.Int("map.wall_count", g.cfg.WallCount),
		attribute.Int("fov.range", g.viewRange),
	)
	initSpan.End()

	g.recompute(ctx)

	for g.running {
		g.renderer.Render(g.grid, g.originX, g.originY, g.viewRange)
		g.handleInput(ctx)
	}

	g.screen.Close()
	return nil
}

// recompute refreshes the visible set for the current origin and range.
func (g *Game) recompute(ctx context.Context) {
	g.grid.ComputeVisibility(ctx, g.originX, g.originY, g.viewRange)
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		g.tryMove(ctx, 1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case '+', '=':
			g.adjustRange(ctx, 1)
		case '-':
			g.adjustRange(ctx, -1)
		case 'u', 'U':
			g.toggleUnlimited(ctx)
		case 'r', 'R':
			g.grid.RandomizeWalls(g.rng, g.cfg.WallCount)
			g.recompute(ctx)
		case 'p', 'P':
			g.cyclePreset(ctx)
		}
	}
}

// handleMouseEvent processes mouse input: motion moves the observer, a left
// click toggles a wall, and the wheel adjusts the view range.
func (g *Game) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons &^ g.lastButtons
	g.lastButtons = buttons

	switch {
	case pressed&tcell.Button1 != 0:
		g.grid.ToggleOpaque(x, y)
		g.recompute(ctx)
	case buttons&tcell.WheelUp != 0:
		g.adjustRange(ctx, 1)
	case buttons&tcell.WheelDown != 0:
		g.adjustRange(ctx, -1)
	default:
		if g.grid.IsInBounds(x, y) && (x != g.originX || y != g.originY) {
			g.originX = x
			g.originY = y
			g.recompute(ctx)
		}
	}
}

// tryMove moves the observer by the given delta if the target is on the map.
func (g *Game) tryMove(ctx context.Context, dx, dy int) {
	newX := g.originX + dx
	newY := g.originY + dy

	if g.grid.IsInBounds(newX, newY) {
		g.originX = newX
		g.originY = newY
		g.recompute(ctx)
	}
}

// adjustRange changes the view range by delta; finite ranges never drop
// below zero.
func (g *Game) adjustRange(ctx context.Context, delta int) {
	if g.viewRange < 0 {
		// Unlimited; wheel input brings it back to the saved range.
		g.viewRange = g.savedRange
	}
	g.viewRange += delta
	if g.viewRange < 0 {
		g.viewRange = 0
	}
	g.savedRange = g.viewRange
	g.recompute(ctx)
}

// toggleUnlimited switches between the saved finite range and no range cap.
func (g *Game) toggleUnlimited(ctx context.Context) {
	if g.viewRange < 0 {
		g.viewRange = g.savedRange
	} else {
		g.savedRange = g.viewRange
		g.viewRange = fov.RangeUnlimited
	}
	g.recompute(ctx)
}

// cyclePreset stamps the next embedded wall layout onto the map.
func (g *Game) cyclePreset(ctx context.Context) {
	if len(g.presets) == 0 {
		return
	}
	g.presetIdx = (g.presetIdx + 1) % len(g.presets)
	g.presets[g.presetIdx].Apply(g.grid)
	g.recompute(ctx)
}

// Close cleans up demo resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
