package imaging

import (
	"image"
	"math"
)

// MinForegroundPixels is the foreground pixel count at or below which skew
// estimation is considered unreliable and deskew is skipped.
const MinForegroundPixels = 10

// EstimateSkew returns the rotation, in degrees, that straightens g.
// Positive values rotate counter-clockwise. The second result is false when
// too few foreground pixels exist to estimate an angle.
//
// Ink is isolated by inverting g and binarizing with Otsu's threshold.
// Foreground coordinates are taken as (row, column) pairs and the
// orientation of their minimum-area bounding rectangle is normalized into
// a correction angle.
func EstimateSkew(g *image.Gray) (float64, bool) {
	g = compact(g)
	w, h := g.Rect.Dx(), g.Rect.Dy()

	inv := Invert(g)
	t := Otsu(inv)

	count := 0
	pts := make([]point, 0, 2*h)
	for y := range h {
		row := inv.Pix[y*w : y*w+w]
		first, last := -1, -1
		for x, v := range row {
			if v > t {
				if first < 0 {
					first = x
				}
				last = x
				count++
			}
		}
		if first >= 0 {
			// interior pixels of a row never lie on the hull
			pts = append(pts, point{float64(y), float64(first)})
			if last != first {
				pts = append(pts, point{float64(y), float64(last)})
			}
		}
	}

	if count <= MinForegroundPixels {
		return 0, false
	}

	raw := minAreaRectAngle(convexHull(pts))
	return NormalizeAngle(raw), true
}

// Deskew straightens g when its estimated skew exceeds threshold degrees.
// It returns the image and the rotation applied. When no rotation is
// applied, g itself is returned unchanged with an angle of zero.
func Deskew(g *image.Gray, threshold float64) (*image.Gray, float64) {
	angle, ok := EstimateSkew(g)
	if !ok || math.Abs(angle) <= threshold {
		return g, 0
	}
	return Rotate(g, angle), angle
}
