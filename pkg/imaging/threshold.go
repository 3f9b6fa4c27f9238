package imaging

import "image"

const fltEpsilon = 1.1920929e-07

// Invert returns the photographic negative of g.
func Invert(g *image.Gray) *image.Gray {
	dst := cloneGray(g)
	for i, v := range dst.Pix {
		dst.Pix[i] = 255 - v
	}
	return dst
}

// Otsu returns the threshold that maximizes the between-class variance of
// the intensity histogram. Pixels strictly above the threshold are foreground.
func Otsu(g *image.Gray) uint8 {
	g = compact(g)

	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}

	total := len(g.Pix)
	if total == 0 {
		return 0
	}
	scale := 1.0 / float64(total)

	var mu float64
	for i, n := range hist {
		mu += float64(i) * float64(n)
	}
	mu *= scale

	var (
		q1       float64
		mu1      float64
		maxSigma float64
		maxVal   int
	)

	for i, n := range hist {
		p := float64(n) * scale
		mu1 *= q1
		q1 += p
		q2 := 1 - q1

		if min(q1, q2) < fltEpsilon || max(q1, q2) > 1-fltEpsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			maxVal = i
		}
	}

	return uint8(maxVal)
}
