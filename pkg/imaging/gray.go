package imaging

import "image"

// Grayscale converts img to single-channel luminance using BT.601 weights.
// Alpha is discarded rather than composited.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.Gray:
		return cloneGray(src)
	case *image.YCbCr:
		for y := range h {
			row := dst.Pix[y*dst.Stride:]
			for x := range w {
				row[x] = src.Y[src.YOffset(b.Min.X+x, b.Min.Y+y)]
			}
		}
	case *image.NRGBA:
		for y := range h {
			row := dst.Pix[y*dst.Stride:]
			for x := range w {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				row[x] = luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
			}
		}
	case *image.RGBA:
		for y := range h {
			row := dst.Pix[y*dst.Stride:]
			for x := range w {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				row[x] = luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
			}
		}
	default:
		for y := range h {
			row := dst.Pix[y*dst.Stride:]
			for x := range w {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				row[x] = luma16(r, g, bl)
			}
		}
	}

	return dst
}

func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

func luma16(r, g, b uint32) uint8 {
	v := (299*r + 587*g + 114*b + 500) / 1000
	return uint8((v + 128) / 257)
}

// ToRGB expands a grayscale image to an opaque RGBA image with equal channels.
func ToRGB(g *image.Gray) *image.RGBA {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		src := g.Pix[g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y):]
		row := dst.Pix[y*dst.Stride:]
		for x := range w {
			v := src[x]
			row[4*x] = v
			row[4*x+1] = v
			row[4*x+2] = v
			row[4*x+3] = 0xff
		}
	}
	return dst
}
