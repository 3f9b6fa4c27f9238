package imaging

import (
	"image"
	"math"
)

// maxWeightExponent bounds the patch distances that contribute to the
// weighted average; exp(-16) is below the precision of an 8-bit result.
const maxWeightExponent = 16.0

// Denoise applies non-local means filtering. Each output pixel is the
// average of the pixels in its search window, weighted by exp(-d/h²) where d
// is the mean squared difference between the template patches centered on
// the two pixels. Borders are mirrored. A non-positive strength returns a copy
// of the input.
func Denoise(src *image.Gray, strength float64, templateWindow, searchWindow int) *image.Gray {
	src = compact(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if strength <= 0 || w == 0 || h == 0 {
		return cloneGray(src)
	}

	tr := max(templateWindow/2, 0)
	sr := max(searchWindow/2, 0)
	tw := 2*tr + 1
	area := float64(tw * tw)

	pad := tr + sr
	pw, ph := w+2*pad, h+2*pad
	padded := make([]int32, pw*ph)
	for y := range ph {
		sy := reflect101(y-pad, h)
		for x := range pw {
			padded[y*pw+x] = int32(src.Pix[sy*w+reflect101(x-pad, w)])
		}
	}

	h2 := strength * strength
	lut := make([]float32, int(maxWeightExponent*h2*area)+1)
	for i := range lut {
		lut[i] = float32(math.Exp(-float64(i) / area / h2))
	}

	// region covers every template window centered on an output pixel
	rw, rh := w+2*tr, h+2*tr
	diff := make([]int32, rw*rh)
	hsum := make([]int32, rh*w)
	colsum := make([]int32, w)
	wsum := make([]float32, w*h)
	vsum := make([]float32, w*h)

	for dy := -sr; dy <= sr; dy++ {
		for dx := -sr; dx <= sr; dx++ {
			for ry := range rh {
				base := (ry+sr)*pw + sr
				shifted := base + dy*pw + dx
				row := diff[ry*rw : ry*rw+rw]
				for rx := range rw {
					d := padded[base+rx] - padded[shifted+rx]
					row[rx] = d * d
				}
			}

			for ry := range rh {
				row := diff[ry*rw : ry*rw+rw]
				out := hsum[ry*w : ry*w+w]
				var s int32
				for k := range tw {
					s += row[k]
				}
				out[0] = s
				for x := 1; x < w; x++ {
					s += row[x+tw-1] - row[x-1]
					out[x] = s
				}
			}

			clear(colsum)
			for k := range tw {
				row := hsum[k*w : k*w+w]
				for x := range w {
					colsum[x] += row[x]
				}
			}

			for y := range h {
				if y > 0 {
					drop := hsum[(y-1)*w : y*w]
					add := hsum[(y+tw-1)*w : (y+tw)*w]
					for x := range w {
						colsum[x] += add[x] - drop[x]
					}
				}

				neighbor := (y+pad+dy)*pw + pad + dx
				for x := range w {
					d := int(colsum[x])
					if d >= len(lut) {
						continue
					}
					weight := lut[d]
					i := y*w + x
					wsum[i] += weight
					vsum[i] += weight * float32(padded[neighbor+x])
				}
			}
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i := range dst.Pix {
		dst.Pix[i] = saturate(float64(vsum[i] / wsum[i]))
	}
	return dst
}
