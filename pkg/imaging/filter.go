package imaging

import (
	"image"
	"math"
)

// Sharpen convolves g with the 3x3 kernel [[0,-1,0],[-1,5,-1],[0,-1,0]],
// mirroring borders and saturating the result.
func Sharpen(g *image.Gray) *image.Gray {
	g = compact(g)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := range h {
		up := g.Pix[reflect101(y-1, h)*w:]
		mid := g.Pix[y*w:]
		down := g.Pix[reflect101(y+1, h)*w:]
		row := dst.Pix[y*w:]
		for x := range w {
			l, r := reflect101(x-1, w), reflect101(x+1, w)
			v := 5*int(mid[x]) - int(up[x]) - int(down[x]) - int(mid[l]) - int(mid[r])
			row[x] = uint8(clampInt(v, 0, 255))
		}
	}

	return dst
}

// Contrast applies clamp(alpha*v + beta) to every pixel, rounding half to
// even and saturating to [0, 255].
func Contrast(g *image.Gray, alpha, beta float64) *image.Gray {
	var lut [256]uint8
	for i := range lut {
		v := math.RoundToEven(alpha*float64(i) + beta)
		lut[i] = uint8(max(0, min(255, v)))
	}

	dst := cloneGray(g)
	for i, v := range dst.Pix {
		dst.Pix[i] = lut[v]
	}
	return dst
}
