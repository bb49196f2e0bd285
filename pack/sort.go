package pack

import (
	"fmt"
	"image"
)

// SortCriteria selects the ordering Pack applies to a batch before placing
// it. The same ordering decides which remainder slot is stored as the
// bigger one after a split.
type SortCriteria int

const (
	// SortHeight orders by height, tallest first.
	SortHeight SortCriteria = iota
	// SortWidth orders by width, widest first.
	SortWidth
	// SortArea orders by width*height, largest first.
	SortArea
	// SortPathological orders by max(w,h)/min(w,h) * w*h, which favors long
	// thin rectangles over square ones of similar area.
	SortPathological
)

// String returns the criteria name.
func (c SortCriteria) String() string {
	switch c {
	case SortHeight:
		return "height"
	case SortWidth:
		return "width"
	case SortArea:
		return "area"
	case SortPathological:
		return "pathological"
	default:
		return fmt.Sprintf("SortCriteria(%d)", int(c))
	}
}

// ParseSortCriteria maps a criteria name back to its value.
func ParseSortCriteria(s string) (SortCriteria, error) {
	switch s {
	case "height", "":
		return SortHeight, nil
	case "width":
		return SortWidth, nil
	case "area":
		return SortArea, nil
	case "pathological":
		return SortPathological, nil
	}
	return SortHeight, fmt.Errorf("pack: unknown sort criteria %q", s)
}

// Valid reports whether c is one of the defined criteria.
func (c SortCriteria) Valid() bool {
	return c >= SortHeight && c <= SortPathological
}

// greater reports whether a orders strictly before b under c.
func (c SortCriteria) greater(a, b image.Point) bool {
	switch c {
	case SortWidth:
		return a.X > b.X
	case SortArea:
		return a.X*a.Y > b.X*b.Y
	case SortPathological:
		return pathologicalMultiplier(a) > pathologicalMultiplier(b)
	default:
		return a.Y > b.Y
	}
}

// compare is a descending three-way comparison for slices.SortStableFunc.
func (c SortCriteria) compare(a, b image.Point) int {
	switch {
	case c.greater(a, b):
		return -1
	case c.greater(b, a):
		return 1
	default:
		return 0
	}
}

// pathologicalMultiplier returns max/min * area. The ratio is an integer
// division, so every aspect ratio below 2 counts as 1. A degenerate size
// with a zero side scores zero.
func pathologicalMultiplier(s image.Point) float64 {
	lo, hi := min(s.X, s.Y), max(s.X, s.Y)
	if lo <= 0 {
		return 0
	}
	return float64(hi/lo) * float64(s.X*s.Y)
}
