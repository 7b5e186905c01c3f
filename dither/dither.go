/*
Package dither implements Floyd-Steinberg error diffusion against a fixed
palette.

Pixels are visited row by row, top to bottom and left to right. The signed
error between each pixel and its chosen palette color is pushed into the
unvisited neighbours:

	      X   7/16
	3/16 5/16 1/16

Error destined for a neighbour outside the image is dropped.
*/
package dither

import (
	"image"
	"math"

	"github.com/bodgit/indexbmp/palette"
)

type weight struct {
	dx, dy int
	w      float32
}

var floydSteinberg = [...]weight{
	{1, 0, 7.0 / 16},
	{-1, 1, 3.0 / 16},
	{0, 1, 5.0 / 16},
	{1, 1, 1.0 / 16},
}

func clampRound(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Floor(float64(v) + 0.5))
}

// FloydSteinberg returns m indexed against p with the quantization error
// diffused into neighbouring pixels. m is not modified.
func FloydSteinberg(m *image.NRGBA, p palette.Palette) *image.Paletted {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewPaletted(image.Rect(0, 0, w, h), p.ColorPalette())
	if len(p) == 0 {
		return out
	}

	// Working copy of RGB only
	work := make([]float32, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := m.PixOffset(m.Rect.Min.X+x, m.Rect.Min.Y+y)
			d := (y*w + x) * 3
			work[d+0] = float32(m.Pix[s+0])
			work[d+1] = float32(m.Pix[s+1])
			work[d+2] = float32(m.Pix[s+2])
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := (y*w + x) * 3
			old := palette.Color{
				R: clampRound(work[d+0]),
				G: clampRound(work[d+1]),
				B: clampRound(work[d+2]),
			}

			i := p.Nearest(old)
			out.Pix[y*out.Stride+x] = uint8(i)

			er := float32(int(old.R) - int(p[i].R))
			eg := float32(int(old.G) - int(p[i].G))
			eb := float32(int(old.B) - int(p[i].B))

			for _, n := range floydSteinberg {
				nx, ny := x+n.dx, y+n.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				o := (ny*w + nx) * 3
				work[o+0] += er * n.w
				work[o+1] += eg * n.w
				work[o+2] += eb * n.w
			}
		}
	}

	return out
}
