package resize

import "image"

// SharpenAmount is the strength of the unsharp mask
const SharpenAmount = 0.3

// Sharpen applies an unsharp mask to the RGB channels of m in place:
// c + amount*(c - mean of the four direct neighbours). The one pixel border
// is left untouched and alpha is never modified.
func Sharpen(m *image.NRGBA) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w < 3 || h < 3 {
		return
	}

	src := make([]uint8, len(m.Pix))
	copy(src, m.Pix)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*m.Stride + x*4
			for c := 0; c < 3; c++ {
				center := float64(src[i+c])
				blur := (float64(src[i-m.Stride+c]) +
					float64(src[i+m.Stride+c]) +
					float64(src[i-4+c]) +
					float64(src[i+4+c])) / 4
				m.Pix[i+c] = clamp8(center + SharpenAmount*(center-blur))
			}
		}
	}
}
