package imaging

import (
	"math"
	"slices"
)

type point struct {
	x, y float64
}

func cross(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

// convexHull returns the hull of pts in counter-clockwise order using the
// monotone chain algorithm. pts must be sorted by x, then y.
func convexHull(pts []point) []point {
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// minAreaRectAngle returns the orientation of the minimum-area rectangle
// enclosing hull, expressed in [-90, 0) degrees. Every rectangle side is
// parallel or perpendicular to one hull edge, so each edge direction is
// tried and the one producing the smallest area wins.
func minAreaRectAngle(hull []point) float64 {
	switch len(hull) {
	case 0, 1:
		return canonicalAngle(0)
	case 2:
		return canonicalAngle(edgeAngle(hull[0], hull[1]))
	}

	bestArea := math.Inf(1)
	bestAngle := 0.0

	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		dx, dy := b.x-a.x, b.y-a.y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ux, uy := dx/length, dy/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			px, py := p.x-a.x, p.y-a.y
			u := px*ux + py*uy
			v := -px*uy + py*ux
			minU, maxU = min(minU, u), max(maxU, u)
			minV, maxV = min(minV, v), max(maxV, v)
		}

		area := (maxU - minU) * (maxV - minV)
		if area < bestArea-1e-9 {
			bestArea = area
			bestAngle = edgeAngle(a, b)
		}
	}

	return canonicalAngle(bestAngle)
}

func edgeAngle(a, b point) float64 {
	return math.Atan2(b.y-a.y, b.x-a.x) * 180 / math.Pi
}

// canonicalAngle folds a rectangle side direction into [-90, 0). A rectangle
// is symmetric under quarter turns, so any side direction identifies it.
func canonicalAngle(deg float64) float64 {
	a := math.Mod(deg, 90)
	if a < 0 {
		a += 90
	}
	if a >= 90 {
		a -= 90
	}
	return a - 90
}

// NormalizeAngle converts a minimum-area rectangle angle in [-90, 0) into
// the rotation that straightens the page.
func NormalizeAngle(raw float64) float64 {
	if raw < -45 {
		return -(90 + raw)
	}
	return -raw
}
