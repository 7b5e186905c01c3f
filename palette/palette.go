/*
Package palette implements the 24-bit colors and ordered palettes shared by
the quantizers, the ditherer and the bitmap encoder.

A palette holds at most MaxColors entries and the position of each color is
its index. When a reserved (transparent) color is in use it always occupies
the final slot.
*/
package palette

import (
	"image"
	"image/color"
	"math"
)

// MaxColors is the largest number of entries a palette may hold
const MaxColors = 256

// Color is an opaque 24-bit color. It implements the color.Color interface.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color, alpha is always fully opaque
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// FromColor converts any color.Color to a Color, discarding alpha. The
// value is taken from the non-premultiplied form.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Distance returns the sum of the squared channel differences between two
// colors
func Distance(c1, c2 Color) int {
	dr := int(c1.R) - int(c2.R)
	dg := int(c1.G) - int(c2.G)
	db := int(c1.B) - int(c2.B)
	return dr*dr + dg*dg + db*db
}

// Palette is an ordered list of colors
type Palette []Color

// Nearest returns the index of the palette entry closest to c. Ties resolve
// to the lowest index. An empty palette returns 0.
func (p Palette) Nearest(c Color) int {
	nearest, best := 0, math.MaxInt32
	for i, pc := range p {
		if d := Distance(c, pc); d < best {
			nearest, best = i, d
			if d == 0 {
				break
			}
		}
	}
	return nearest
}

// ColorPalette returns p as a color.Palette suitable for image.Paletted
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// FromColorPalette converts a color.Palette into a Palette
func FromColorPalette(cp color.Palette) Palette {
	p := make(Palette, len(cp))
	for i, c := range cp {
		p[i] = FromColor(c)
	}
	return p
}

// Index maps every pixel of m to its nearest palette entry
func (p Palette) Index(m *image.NRGBA) *image.Paletted {
	b := m.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), p.ColorPalette())
	for y := 0; y < b.Dy(); y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			pm.Pix[y*pm.Stride+x] = uint8(p.Nearest(Color{row[x*4], row[x*4+1], row[x*4+2]}))
		}
	}
	return pm
}

// Expand turns an indexed image back into full color with alpha fixed at
// 255. Indices beyond the palette are clamped to the last entry.
func Expand(m *image.Paletted) *image.NRGBA {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if len(m.Palette) == 0 {
		return out
	}
	p := FromColorPalette(m.Palette)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := int(m.Pix[y*m.Stride+x])
			if i >= len(p) {
				i = len(p) - 1
			}
			o := y*out.Stride + x*4
			out.Pix[o+0] = p[i].R
			out.Pix[o+1] = p[i].G
			out.Pix[o+2] = p[i].B
			out.Pix[o+3] = 0xff
		}
	}
	return out
}
