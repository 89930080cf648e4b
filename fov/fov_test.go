package fov

import (
	"math"
	"math/rand"
	"testing"
)

// testMap is an in-test Map implementation backed by plain bool slices.
type testMap struct {
	width, height int
	opaque        []bool
	visible       []bool
}

func newTestMap(width, height int) *testMap {
	return &testMap{
		width:   width,
		height:  height,
		opaque:  make([]bool, width*height),
		visible: make([]bool, width*height),
	}
}

func (m *testMap) index(x, y int) int { return y*m.width + x }

func (m *testMap) setOpaque(x, y int)      { m.opaque[m.index(x, y)] = true }
func (m *testMap) isVisible(x, y int) bool { return m.visible[m.index(x, y)] }

func (m *testMap) clearVisible() {
	for i := range m.visible {
		m.visible[i] = false
	}
}

func (m *testMap) visibleSet() map[[2]int]bool {
	set := make(map[[2]int]bool)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.isVisible(x, y) {
				set[[2]int{x, y}] = true
			}
		}
	}
	return set
}

func (m *testMap) IsOpaque(x, y int) bool { return m.opaque[m.index(x, y)] }

func (m *testMap) IsInBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func (m *testMap) SetVisible(x, y int) { m.visible[m.index(x, y)] = true }

func (m *testMap) Distance(x0, y0, x1, y1 int) float64 {
	return math.Hypot(float64(x1-x0), float64(y1-y0))
}

// TestShadowCompleteness checks that single blockers adjacent to the origin
// hide exactly the cells directly behind them, while the blockers themselves
// stay visible.
func TestShadowCompleteness(t *testing.T) {
	m := newTestMap(30, 30)
	m.setOpaque(0, 1)
	m.setOpaque(1, 0)

	Compute(m, 0, 0, 5)

	if !m.isVisible(0, 0) {
		t.Error("Origin should be visible")
	}
	if !m.isVisible(0, 1) {
		t.Error("Blocker at (0,1) should itself be visible")
	}
	if m.isVisible(0, 2) {
		t.Error("(0,2) behind the blocker should be hidden")
	}
	if !m.isVisible(1, 0) {
		t.Error("Blocker at (1,0) should itself be visible")
	}
	if m.isVisible(2, 0) {
		t.Error("(2,0) behind the blocker should be hidden")
	}
}

func TestOriginAlwaysVisible(t *testing.T) {
	for _, viewRange := range []int{0, 1, 5, RangeUnlimited} {
		m := newTestMap(10, 10)
		// Wall the origin in completely.
		for _, d := range [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
			m.setOpaque(5+d[0], 5+d[1])
		}

		Compute(m, 5, 5, viewRange)

		if !m.isVisible(5, 5) {
			t.Errorf("Origin not visible with range %d", viewRange)
		}
	}
}

func TestRangeZeroMarksOnlyOrigin(t *testing.T) {
	m := newTestMap(10, 10)

	Compute(m, 5, 5, 0)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := x == 5 && y == 5
			if m.isVisible(x, y) != want {
				t.Errorf("Range 0: visibility of (%d,%d) = %v, want %v", x, y, m.isVisible(x, y), want)
			}
		}
	}
}

// TestRangeCutoff verifies that on an open map a cell is visible exactly
// when its Euclidean distance from the origin is within range.
func TestRangeCutoff(t *testing.T) {
	const viewRange = 4
	m := newTestMap(21, 21)

	Compute(m, 10, 10, viewRange)

	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			dist := m.Distance(10, 10, x, y)
			inRange := dist <= viewRange
			if m.isVisible(x, y) != inRange {
				t.Errorf("(%d,%d) at distance %.2f: visible = %v, want %v",
					x, y, dist, m.isVisible(x, y), inRange)
			}
		}
	}
}

func TestUnlimitedRange(t *testing.T) {
	m := newTestMap(40, 25)

	Compute(m, 20, 12, RangeUnlimited)

	for y := 0; y < 25; y++ {
		for x := 0; x < 40; x++ {
			if !m.isVisible(x, y) {
				t.Errorf("(%d,%d) should be visible on an open map with unlimited range", x, y)
			}
		}
	}
}

// TestSymmetry checks that for transparent cells A and B, A sees B exactly
// when B sees A, across randomly generated maps.
func TestSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))

	for trial := 0; trial < 10; trial++ {
		m := newTestMap(20, 20)
		for i := 0; i < 30; i++ {
			m.setOpaque(rng.Intn(20), rng.Intn(20))
		}

		// Sample transparent origins and record each one's field of view.
		var origins [][2]int
		for len(origins) < 6 {
			x, y := rng.Intn(20), rng.Intn(20)
			if !m.IsOpaque(x, y) {
				origins = append(origins, [2]int{x, y})
			}
		}

		views := make([]map[[2]int]bool, len(origins))
		for i, o := range origins {
			m.clearVisible()
			Compute(m, o[0], o[1], RangeUnlimited)
			views[i] = m.visibleSet()
		}

		for i := range origins {
			for j := i + 1; j < len(origins); j++ {
				aSeesB := views[i][origins[j]]
				bSeesA := views[j][origins[i]]
				if aSeesB != bSeesA {
					t.Errorf("Trial %d: asymmetric visibility between %v and %v: %v vs %v",
						trial, origins[i], origins[j], aSeesB, bSeesA)
				}
			}
		}
	}
}

// TestMonotonicBlocking verifies that adding a blocker never reveals a
// transparent cell that was hidden before. Wall faces are excluded from the
// comparison: an opaque cell is always visible once the scan reaches it, so
// a new wall can legitimately expose an adjacent wall's face.
func TestMonotonicBlocking(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 20; trial++ {
		m := newTestMap(20, 20)
		for i := 0; i < 12; i++ {
			m.setOpaque(rng.Intn(20), rng.Intn(20))
		}

		Compute(m, 10, 10, 8)
		before := m.visibleSet()

		// Block a random transparent cell away from the origin.
		for {
			x, y := rng.Intn(20), rng.Intn(20)
			if (x != 10 || y != 10) && !m.IsOpaque(x, y) {
				m.setOpaque(x, y)
				break
			}
		}

		m.clearVisible()
		Compute(m, 10, 10, 8)

		for cell := range m.visibleSet() {
			if m.IsOpaque(cell[0], cell[1]) {
				continue
			}
			if !before[cell] {
				t.Errorf("Trial %d: transparent cell %v became visible after adding a blocker", trial, cell)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newTestMap(25, 25)
	for i := 0; i < 40; i++ {
		m.setOpaque(rng.Intn(25), rng.Intn(25))
	}

	Compute(m, 12, 12, 9)
	first := m.visibleSet()

	m.clearVisible()
	Compute(m, 12, 12, 9)
	second := m.visibleSet()

	if len(first) != len(second) {
		t.Fatalf("Visible set size changed between runs: %d != %d", len(first), len(second))
	}
	for cell := range first {
		if !second[cell] {
			t.Errorf("Cell %v visible in first run but not second", cell)
		}
	}
}

// recordingMap fails the test if any capability call carries out-of-bounds
// coordinates.
type recordingMap struct {
	*testMap
	t *testing.T
}

func (m *recordingMap) IsOpaque(x, y int) bool {
	if !m.testMap.IsInBounds(x, y) {
		m.t.Errorf("IsOpaque called out of bounds at (%d,%d)", x, y)
		return true
	}
	return m.testMap.IsOpaque(x, y)
}

func (m *recordingMap) SetVisible(x, y int) {
	if !m.testMap.IsInBounds(x, y) {
		m.t.Errorf("SetVisible called out of bounds at (%d,%d)", x, y)
		return
	}
	m.testMap.SetVisible(x, y)
}

func TestBoundsSafety(t *testing.T) {
	// Origins on and beyond the map edges; the scan must keep every
	// opacity query and visibility mark inside the map.
	origins := [][2]int{{0, 0}, {4, 4}, {0, 4}, {2, 2}, {-3, -3}, {7, 2}}

	for _, o := range origins {
		m := &recordingMap{testMap: newTestMap(5, 5), t: t}
		m.setOpaque(2, 1)

		Compute(m, o[0], o[1], 10)
	}
}

func TestOutOfBoundsOriginMarksNothing(t *testing.T) {
	m := newTestMap(5, 5)

	Compute(m, -4, -4, 2)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if m.isVisible(x, y) {
				t.Errorf("(%d,%d) marked visible from an out-of-bounds origin beyond range", x, y)
			}
		}
	}
}

func TestNegativeRangeTreatedAsUnlimited(t *testing.T) {
	m := newTestMap(15, 15)

	Compute(m, 7, 7, -42)

	if !m.isVisible(0, 0) || !m.isVisible(14, 14) {
		t.Error("Negative range should disable the distance cutoff")
	}
}
