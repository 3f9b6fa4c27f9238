package imaging

import (
	"image"
	"math"
)

const cubicA = -0.75

// Rotate turns g counter-clockwise by angle degrees about its center,
// keeping the original dimensions. Samples are bicubic and pixels mapped
// outside the source replicate the nearest edge.
func Rotate(g *image.Gray, angle float64) *image.Gray {
	g = compact(g)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	rad := angle * math.Pi / 180
	alpha, beta := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(w/2), float64(h/2)

	for y := range h {
		fy := float64(y) - cy
		row := dst.Pix[y*dst.Stride:]
		for x := range w {
			fx := float64(x) - cx
			sx := alpha*fx - beta*fy + cx
			sy := beta*fx + alpha*fy + cy
			row[x] = bicubic(g, w, h, sx, sy)
		}
	}

	return dst
}

func bicubic(g *image.Gray, w, h int, sx, sy float64) uint8 {
	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	cxs := cubicCoeffs(sx - float64(x0))
	cys := cubicCoeffs(sy - float64(y0))

	var sum float64
	for j := range 4 {
		yy := clampInt(y0-1+j, 0, h-1)
		row := g.Pix[yy*w:]
		var rs float64
		for i := range 4 {
			xx := clampInt(x0-1+i, 0, w-1)
			rs += cxs[i] * float64(row[xx])
		}
		sum += cys[j] * rs
	}

	return saturate(sum)
}

func cubicCoeffs(x float64) [4]float64 {
	var c [4]float64
	c[0] = ((cubicA*(x+1)-5*cubicA)*(x+1)+8*cubicA)*(x+1) - 4*cubicA
	c[1] = ((cubicA+2)*x-(cubicA+3))*x*x + 1
	c[2] = ((cubicA+2)*(1-x)-(cubicA+3))*(1-x)*(1-x) + 1
	c[3] = 1 - c[0] - c[1] - c[2]
	return c
}
