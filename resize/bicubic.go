package resize

import (
	"image"
	"math"
)

type bicubic struct{}

// catmullRom interpolates between p1 and p2 at offset t using p0 and p3 as
// the outer control points
func catmullRom(p [4]float64, t float64) float64 {
	return p[1] + 0.5*t*(p[2]-p[0]+t*(2*p[0]-5*p[1]+4*p[2]-p[3]+t*(3*(p[1]-p[2])+p[3]-p[0])))
}

func (bicubic) Resample(m *image.NRGBA, width, height int) *image.NRGBA {
	sw, sh := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	xRatio := float64(sw) / float64(width)
	yRatio := float64(sh) / float64(height)

	var xs, ys [4]int
	for y := 0; y < height; y++ {
		sy := float64(y) * yRatio
		yi := math.Floor(sy)
		dy := sy - yi
		for j := range ys {
			ys[j] = clampInt(int(yi)+j-1, 0, sh-1)
		}

		for x := 0; x < width; x++ {
			sx := float64(x) * xRatio
			xi := math.Floor(sx)
			dx := sx - xi
			for i := range xs {
				xs[i] = clampInt(int(xi)+i-1, 0, sw-1)
			}

			o := y*out.Stride + x*4
			for c := 0; c < 3; c++ {
				// Rows first, then the resulting column
				var col [4]float64
				for j, py := range ys {
					var row [4]float64
					for i, px := range xs {
						row[i] = float64(m.Pix[py*m.Stride+px*4+c])
					}
					col[j] = catmullRom(row, dx)
				}
				out.Pix[o+c] = clamp8(catmullRom(col, dy))
			}
			out.Pix[o+3] = 0xff
		}
	}

	return out
}
