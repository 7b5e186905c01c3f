package resize

import (
	"image"
	"math"
)

type hermite struct{}

// hermiteWeight is the smoothstep basis 2t³-3t²+1
func hermiteWeight(t float64) float64 {
	t2 := t * t
	return 2*t2*t - 3*t2 + 1
}

func (hermite) Resample(m *image.NRGBA, width, height int) *image.NRGBA {
	sw, sh := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	xRatio := float64(sw) / float64(width)
	yRatio := float64(sh) / float64(height)

	for y := 0; y < height; y++ {
		sy := float64(y) * yRatio
		yi := math.Floor(sy)
		wy := hermiteWeight(sy - yi)
		y0 := clampInt(int(yi), 0, sh-1)
		y1 := clampInt(int(yi)+1, 0, sh-1)

		for x := 0; x < width; x++ {
			sx := float64(x) * xRatio
			xi := math.Floor(sx)
			wx := hermiteWeight(sx - xi)
			x0 := clampInt(int(xi), 0, sw-1)
			x1 := clampInt(int(xi)+1, 0, sw-1)

			i00 := y0*m.Stride + x0*4
			i10 := y0*m.Stride + x1*4
			i01 := y1*m.Stride + x0*4
			i11 := y1*m.Stride + x1*4

			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				top := float64(m.Pix[i00+c])*(1-wx) + float64(m.Pix[i10+c])*wx
				bottom := float64(m.Pix[i01+c])*(1-wx) + float64(m.Pix[i11+c])*wx
				out.Pix[o+c] = clamp8(top*(1-wy) + bottom*wy)
			}
			out.Pix[o+3] = 0xff
		}
	}

	return out
}
