package sdffont

import (
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// edge is a line segment of a flattened outline in bitmap pixels, y down.
type edge struct {
	x0, y0, x1, y1 float32
}

// flatTolerance is the maximum distance in pixels between a curve and its
// flattened polyline.
const flatTolerance = 0.2

const maxCurveSteps = 32

type point struct{ x, y float32 }

func fixedPoint(p fixed.Point26_6, dx, dy float32) point {
	return point{float32(p.X)/64 + dx, float32(p.Y)/64 + dy}
}

// segmentBounds returns the bounding box of all points of segs, including
// control points, in pixels.
func segmentBounds(segs []sfnt.Segment) (minX, minY, maxX, maxY float32) {
	minX, minY = math.MaxFloat32, math.MaxFloat32
	maxX, maxY = -math.MaxFloat32, -math.MaxFloat32
	for _, s := range segs {
		n := 1
		switch s.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, a := range s.Args[:n] {
			p := fixedPoint(a, 0, 0)
			minX, maxX = min(minX, p.x), max(maxX, p.x)
			minY, maxY = min(minY, p.y), max(maxY, p.y)
		}
	}
	return minX, minY, maxX, maxY
}

// flatten appends the edges of segs, translated by (dx, dy), to dst.
// Open contours are closed.
func flatten(dst []edge, segs []sfnt.Segment, dx, dy float32) []edge {
	var start, cur point
	open := false
	closeContour := func() {
		if open && cur != start {
			dst = append(dst, edge{cur.x, cur.y, start.x, start.y})
		}
	}

	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			start = fixedPoint(s.Args[0], dx, dy)
			cur = start
			open = true
		case sfnt.SegmentOpLineTo:
			p := fixedPoint(s.Args[0], dx, dy)
			dst = append(dst, edge{cur.x, cur.y, p.x, p.y})
			cur = p
		case sfnt.SegmentOpQuadTo:
			c := fixedPoint(s.Args[0], dx, dy)
			p := fixedPoint(s.Args[1], dx, dy)
			n := curveSteps(cur.x-2*c.x+p.x, cur.y-2*c.y+p.y)
			prev := cur
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				q := point{
					u*u*cur.x + 2*u*t*c.x + t*t*p.x,
					u*u*cur.y + 2*u*t*c.y + t*t*p.y,
				}
				dst = append(dst, edge{prev.x, prev.y, q.x, q.y})
				prev = q
			}
			cur = p
		case sfnt.SegmentOpCubeTo:
			c1 := fixedPoint(s.Args[0], dx, dy)
			c2 := fixedPoint(s.Args[1], dx, dy)
			p := fixedPoint(s.Args[2], dx, dy)
			ddx := max(abs32(cur.x-2*c1.x+c2.x), abs32(c1.x-2*c2.x+p.x))
			ddy := max(abs32(cur.y-2*c1.y+c2.y), abs32(c1.y-2*c2.y+p.y))
			n := curveSteps(1.5*ddx, 1.5*ddy)
			prev := cur
			for i := 1; i <= n; i++ {
				t := float32(i) / float32(n)
				u := 1 - t
				q := point{
					u*u*u*cur.x + 3*u*u*t*c1.x + 3*u*t*t*c2.x + t*t*t*p.x,
					u*u*u*cur.y + 3*u*u*t*c1.y + 3*u*t*t*c2.y + t*t*t*p.y,
				}
				dst = append(dst, edge{prev.x, prev.y, q.x, q.y})
				prev = q
			}
			cur = p
		}
	}
	closeContour()
	return dst
}

// curveSteps picks a subdivision count from the second difference of the
// control polygon.
func curveSteps(ddx, ddy float32) int {
	dd := math.Sqrt(float64(ddx*ddx + ddy*ddy))
	n := int(math.Ceil(math.Sqrt(dd / (4 * flatTolerance))))
	return min(max(n, 1), maxCurveSteps)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
