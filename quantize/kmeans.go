package quantize

import (
	"image"
	"math/rand"

	"github.com/bodgit/indexbmp/palette"
)

type kmeans struct {
	rng        *rand.Rand
	iterations int
	samples    int
}

func (k kmeans) Quantize(m *image.NRGBA, maxColors int, reserved *palette.Color) (palette.Palette, *image.Paletted, error) {
	target, err := targetColors(m, maxColors, reserved)
	if err != nil {
		return nil, nil, err
	}
	if target == 0 {
		return finish(m, nil, reserved)
	}

	stride := m.Rect.Dx() * m.Rect.Dy() / k.samples
	if stride < 1 {
		stride = 1
	}
	samples := pixels(m, stride)

	// Seed the centroids from a shuffle of the samples
	seeds := make([]palette.Color, len(samples))
	copy(seeds, samples)
	k.rng.Shuffle(len(seeds), func(i, j int) {
		seeds[i], seeds[j] = seeds[j], seeds[i]
	})
	if len(seeds) > target {
		seeds = seeds[:target]
	}
	centroids := palette.Palette(seeds)

	type sum struct {
		r, g, b, n int
	}
	sums := make([]sum, len(centroids))

	for iter := 0; iter < k.iterations; iter++ {
		for i := range sums {
			sums[i] = sum{}
		}

		for _, c := range samples {
			s := &sums[centroids.Nearest(c)]
			s.r += int(c.R)
			s.g += int(c.G)
			s.b += int(c.B)
			s.n++
		}

		// Empty clusters keep their previous centroid
		for i, s := range sums {
			if s.n == 0 {
				continue
			}
			n := float64(s.n)
			centroids[i] = palette.Color{
				R: round(float64(s.r) / n),
				G: round(float64(s.g) / n),
				B: round(float64(s.b) / n),
			}
		}
	}

	p := make(palette.Palette, len(centroids), len(centroids)+1)
	copy(p, centroids)

	return finish(m, p, reserved)
}
