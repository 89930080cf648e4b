package fov

// slope is a boundary ray through the origin, held as the exact rational
// y/x. All comparisons cross-multiply so the arithmetic stays in integers;
// floating-point slopes would reintroduce the symmetry bugs this design
// exists to avoid.
type slope struct {
	y, x int
}

// greater reports s > y/x.
func (s slope) greater(y, x int) bool {
	return s.y*x > s.x*y
}

// greaterOrEqual reports s >= y/x.
func (s slope) greaterOrEqual(y, x int) bool {
	return s.y*x >= s.x*y
}

// lessOrEqual reports s <= y/x.
func (s slope) lessOrEqual(y, x int) bool {
	return s.y*x <= s.x*y
}
