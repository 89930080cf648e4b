// Package fov computes fields of view on 2-D tile grids using recursive
// symmetric shadowcasting. The algorithm is an implementation of Adam
// Milazzo's FOV algorithm
// (http://www.adammil.net/blog/v125_Roguelike_Vision_Algorithms.html#mine).
//
// The core is stateless: all map access goes through the Map interface, so
// any storage backend (dense array, bitset, sparse hash) can plug in. One
// call to Compute marks every cell visible from one observer; callers that
// recompute must clear their previous visibility marks first.
package fov

// Map is the capability contract between the scan and the caller's grid.
// Compute requires exclusive access to the map for the duration of one call:
// it reads opacity and writes visibility marks, and the implementations must
// behave deterministically while the call runs.
type Map interface {
	// IsOpaque reports whether the cell blocks sight. It is never called
	// with out-of-bounds coordinates.
	IsOpaque(x, y int) bool

	// IsInBounds reports whether the cell lies on the map.
	IsInBounds(x, y int) bool

	// SetVisible marks the cell visible. It may be called more than once
	// per cell per Compute and must be idempotent. It is never called
	// with out-of-bounds coordinates.
	SetVisible(x, y int)

	// Distance returns the Euclidean distance between two cells. Only
	// consulted when Compute runs with a finite range.
	Distance(x0, y0, x1, y1 int) float64
}

// RangeUnlimited disables the distance cutoff when passed as the viewRange
// argument to Compute. Any negative range behaves the same way.
const RangeUnlimited = -1

// Compute marks every cell of m visible from the origin, out to viewRange
// in Euclidean distance. The origin itself is always visible. A negative
// viewRange means unlimited; the scan still terminates once every octant's
// wedge is fully occluded (out-of-bounds cells count as opaque).
func Compute(m Map, originX, originY, viewRange int) {
	markVisible(m, originX, originY)

	for octant := 0; octant < 8; octant++ {
		scanOctant(m, octant, originX, originY, viewRange, 1,
			slope{y: 1, x: 1}, slope{y: 0, x: 1})
	}
}

// scanOctant walks one octant column by column, bounded by the top and
// bottom slopes. Each recursion frame owns its own slope pair; frames
// spawned on opacity transitions never share mutable slope state with
// their parent.
func scanOctant(m Map, octant, originX, originY, viewRange, startX int, top, bottom slope) {
	for x := startX; viewRange < 0 || x <= viewRange; x++ {
		topY, bottomY := columnBounds(m, octant, originX, originY, x, top, bottom)
		if !scanColumn(m, octant, originX, originY, viewRange, x, topY, bottomY, &top, &bottom) {
			break
		}
	}
}

// columnBounds computes the rows where the top and bottom slopes enter
// column x, with the one-cell corrections that keep diagonal walls from
// opening gaps or leaks in the shadow edges. The divisions truncate; the
// operands are never negative inside an octant, so truncation and floor
// coincide.
func columnBounds(m Map, octant, originX, originY, x int, top, bottom slope) (topY, bottomY int) {
	if top.x == 1 {
		// Initial wedge edge: the diagonal itself.
		topY = x
	} else {
		topY = ((x*2-1)*top.y + top.x) / (top.x * 2)

		if blocksLight(m, octant, originX, originY, x, topY) {
			if top.greaterOrEqual(topY*2+1, x*2) && !blocksLight(m, octant, originX, originY, x, topY+1) {
				topY++
			}
		} else {
			ax := x * 2
			if blocksLight(m, octant, originX, originY, x+1, topY+1) {
				ax++
			}
			if top.greater(topY*2+1, ax) {
				topY++
			}
		}
	}

	if bottom.y == 0 {
		bottomY = 0
	} else {
		bottomY = ((x*2-1)*bottom.y + bottom.x) / (bottom.x * 2)

		if bottom.greaterOrEqual(bottomY*2+1, x*2) &&
			blocksLight(m, octant, originX, originY, x, bottomY) &&
			!blocksLight(m, octant, originX, originY, x, bottomY+1) {
			bottomY++
		}
	}

	return topY, bottomY
}

// scanColumn resolves visibility for every row of column x from topY down
// to bottomY, narrowing the slopes or spawning a child scan whenever the
// opacity status changes between rows. It returns false when the rest of
// this octant frame is fully occluded and the column loop should stop.
func scanColumn(m Map, octant, originX, originY, viewRange, x, topY, bottomY int, top, bottom *slope) bool {
	// Tri-state opacity of the previous row: -1 unknown, 0 transparent,
	// 1 opaque. Seeded to unknown for each column.
	wasOpaque := -1

	for y := topY; y >= bottomY; y-- {
		if viewRange >= 0 && m.Distance(0, 0, x, y) > float64(viewRange) {
			continue
		}

		isOpaque := blocksLight(m, octant, originX, originY, x, y)

		// Opaque cells are always visible once the scan reaches them:
		// walls are seen, not seen through. Transparent boundary rows
		// must pass the symmetric slope test, which is what makes
		// A-sees-B equivalent to B-sees-A.
		isVisible := isOpaque ||
			((y != topY || top.greaterOrEqual(y, x)) &&
				(y != bottomY || bottom.lessOrEqual(y, x)))

		if isVisible {
			setVisible(m, octant, originX, originY, x, y)
		}

		if x == viewRange {
			continue
		}

		if isOpaque {
			if wasOpaque == 0 {
				// Transparent-to-opaque transition: the shadow cast by
				// this cell starts at its top-left corner.
				nx, ny := x*2, y*2+1
				if blocksLight(m, octant, originX, originY, x, y+1) {
					nx--
				}
				if top.greater(ny, nx) {
					if y == bottomY {
						*bottom = slope{y: ny, x: nx}
						break
					}
					scanOctant(m, octant, originX, originY, viewRange, x+1, *top, slope{y: ny, x: nx})
				} else if y == bottomY {
					return false
				}
			}
			wasOpaque = 1
		} else {
			if wasOpaque > 0 {
				// Opaque-to-transparent transition: sight resumes below
				// the bottom-right corner of the wall run above.
				nx, ny := x*2, y*2+1
				if blocksLight(m, octant, originX, originY, x+1, y+1) {
					nx++
				}
				if bottom.greaterOrEqual(ny, nx) {
					return false
				}
				*top = slope{y: ny, x: nx}
			}
			wasOpaque = 0
		}
	}

	// Continue outward only if the column ended on a transparent row.
	return wasOpaque == 0
}

// blocksLight reports whether the octant-local cell (x, y) blocks sight.
// Cells outside the map count as opaque, so scans terminate at the edges
// without the map ever seeing an out-of-bounds query.
func blocksLight(m Map, octant, originX, originY, x, y int) bool {
	nx, ny := transform(octant, originX, originY, x, y)
	if !m.IsInBounds(nx, ny) {
		return true
	}
	return m.IsOpaque(nx, ny)
}

// setVisible marks the octant-local cell (x, y) visible if it is on the map.
func setVisible(m Map, octant, originX, originY, x, y int) {
	nx, ny := transform(octant, originX, originY, x, y)
	markVisible(m, nx, ny)
}

func markVisible(m Map, x, y int) {
	if m.IsInBounds(x, y) {
		m.SetVisible(x, y)
	}
}

// transform converts octant-local coordinates, where x runs along the
// octant's sweep axis and y along the perpendicular, into absolute grid
// coordinates.
func transform(octant, originX, originY, x, y int) (int, int) {
	switch octant {
	case 0:
		return originX + x, originY - y
	case 1:
		return originX + y, originY - x
	case 2:
		return originX - y, originY - x
	case 3:
		return originX - x, originY - y
	case 4:
		return originX - x, originY + y
	case 5:
		return originX - y, originY + x
	case 6:
		return originX + y, originY + x
	default:
		return originX + x, originY + y
	}
}
