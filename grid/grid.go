// Package grid provides a dense, bit-packed tile map that satisfies the
// fov.Map contract.
package grid

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/sightline/fov"
	"github.com/samdwyer/sightline/internal/telemetry"
)

// Map is a rectangular tile map storing one bit per cell across three
// planes: opacity, currently-visible, and ever-seen. The seen plane is
// fog-of-war memory; it accumulates every cell that has ever been visible
// and is never cleared by recomputation.
type Map struct {
	width, height int
	opaque        bitset
	visible       bitset
	seen          bitset
}

// NewMap creates an empty (all transparent, nothing visible) map.
func NewMap(width, height int) *Map {
	return &Map{
		width:   width,
		height:  height,
		opaque:  newBitset(width * height),
		visible: newBitset(width * height),
		seen:    newBitset(width * height),
	}
}

// Width returns the map width in cells.
func (m *Map) Width() int { return m.width }

// Height returns the map height in cells.
func (m *Map) Height() int { return m.height }

func (m *Map) index(x, y int) int { return y*m.width + x }

// IsOpaque reports whether the cell blocks sight.
func (m *Map) IsOpaque(x, y int) bool {
	return m.opaque.get(m.index(x, y))
}

// IsInBounds reports whether the cell lies on the map.
func (m *Map) IsInBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// SetVisible marks the cell visible and remembers it in the seen plane.
func (m *Map) SetVisible(x, y int) {
	i := m.index(x, y)
	m.visible.set(i)
	m.seen.set(i)
}

// Distance returns the Euclidean distance between two cells.
func (m *Map) Distance(x0, y0, x1, y1 int) float64 {
	return math.Hypot(float64(x1-x0), float64(y1-y0))
}

// IsVisible reports whether the cell was marked visible by the most recent
// ComputeVisibility call.
func (m *Map) IsVisible(x, y int) bool {
	return m.IsInBounds(x, y) && m.visible.get(m.index(x, y))
}

// WasSeen reports whether the cell has ever been visible.
func (m *Map) WasSeen(x, y int) bool {
	return m.IsInBounds(x, y) && m.seen.get(m.index(x, y))
}

// SetOpaque makes the cell block sight.
func (m *Map) SetOpaque(x, y int) {
	if m.IsInBounds(x, y) {
		m.opaque.set(m.index(x, y))
	}
}

// ClearOpaque makes the cell transparent.
func (m *Map) ClearOpaque(x, y int) {
	if m.IsInBounds(x, y) {
		m.opaque.clear(m.index(x, y))
	}
}

// ToggleOpaque flips the cell between wall and floor.
func (m *Map) ToggleOpaque(x, y int) {
	if m.IsInBounds(x, y) {
		m.opaque.toggle(m.index(x, y))
	}
}

// ClearVisible resets the visible plane. Seen memory is kept.
func (m *Map) ClearVisible() {
	m.visible.reset()
}

// ClearOpacity resets the opacity plane, leaving an open map.
func (m *Map) ClearOpacity() {
	m.opaque.reset()
}

// VisibleCount returns the number of currently visible cells.
func (m *Map) VisibleCount() int {
	return m.visible.count()
}

// RandomizeWalls clears the opacity plane and scatters count wall cells at
// random positions. Cells may collide, so the resulting wall count can be
// lower than requested.
func (m *Map) RandomizeWalls(rng *rand.Rand, count int) {
	m.ClearOpacity()
	for i := 0; i < count; i++ {
		m.SetOpaque(rng.Intn(m.width), rng.Intn(m.height))
	}
}

// ComputeVisibility clears the visible plane and recomputes the field of
// view from the given origin. The recomputation is traced.
func (m *Map) ComputeVisibility(ctx context.Context, originX, originY, viewRange int) {
	tracer := telemetry.Tracer("grid")
	_, span := tracer.Start(ctx, "grid.compute_visibility")
	defer span.End()

	startTime := time.Now()

	m.ClearVisible()
	fov.Compute(m, originX, originY, viewRange)

	span.SetAttributes(
		attribute.Int("fov.origin_x", originX),
		attribute.Int("fov.origin_y", originY),
		attribute.Int("fov.range", viewRange),
		attribute.Int("fov.visible_count", m.VisibleCount()),
		attribute.Int64("fov.compute_us", time.Since(startTime).Microseconds()),
	)
}
