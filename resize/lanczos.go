package resize

import (
	"image"
	"math"
)

type lanczos struct {
	a int
}

// kernel is the windowed sinc, sinc(x)·sinc(x/a) for |x| < a
func (l lanczos) kernel(x float64) float64 {
	if x == 0 {
		return 1
	}
	a := float64(l.a)
	if math.Abs(x) >= a {
		return 0
	}
	px := math.Pi * x
	pxa := px / a
	return (math.Sin(px) / px) * (math.Sin(pxa) / pxa)
}

// sample returns the filtered value of channel c around (x, y). Taps outside
// the source are skipped and the remaining weights renormalised.
func (l lanczos) sample(m *image.NRGBA, x, y float64, c int) uint8 {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	xi, yi := int(math.Floor(x)), int(math.Floor(y))

	x0, x1 := clampInt(xi-l.a+1, 0, w-1), clampInt(xi+l.a, 0, w-1)
	y0, y1 := clampInt(yi-l.a+1, 0, h-1), clampInt(yi+l.a, 0, h-1)

	var sum, total float64
	for j := y0; j <= y1; j++ {
		wy := l.kernel(y - float64(j))
		if wy == 0 {
			continue
		}
		for i := x0; i <= x1; i++ {
			weight := l.kernel(x-float64(i)) * wy
			if weight == 0 {
				continue
			}
			sum += float64(m.Pix[j*m.Stride+i*4+c]) * weight
			total += weight
		}
	}

	if total <= 0 {
		return 0
	}
	v := roundHalfUp(sum / total)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Resample maps m onto width by height. Unlike the other filters alpha is
// filtered with the same kernel rather than forced opaque.
func (l lanczos) Resample(m *image.NRGBA, width, height int) *image.NRGBA {
	sw, sh := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	xRatio := float64(sw-1) / float64(width)
	yRatio := float64(sh-1) / float64(height)

	for y := 0; y < height; y++ {
		sy := float64(y) * yRatio
		for x := 0; x < width; x++ {
			sx := float64(x) * xRatio
			o := y*out.Stride + x*4
			for c := 0; c < 4; c++ {
				out.Pix[o+c] = l.sample(m, sx, sy, c)
			}
		}
	}

	return out
}
