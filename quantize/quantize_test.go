package quantize

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/indexbmp/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func noise(w, h int, seed int64) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(m.Pix)
	return m
}

func fromColors(w int, colors ...color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, len(colors)/w))
	for i, c := range colors {
		m.SetNRGBA(i%w, i/w, c)
	}
	return m
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.Nil(t, err)
	assert.Equal(t, MedianCut, m)

	m, err = ParseMethod("K-Means")
	require.Nil(t, err)
	assert.Equal(t, KMeans, m)

	_, err = ParseMethod("popularity")
	assert.NotNil(t, err)

	_, err = New(Method("popularity"), nil)
	assert.NotNil(t, err)
}

func TestSolidImage(t *testing.T) {
	m := solid(16, 16, color.NRGBA{255, 0, 0, 255})

	for _, method := range Methods {
		t.Run(method.String(), func(t *testing.T) {
			q, err := New(method, rand.New(rand.NewSource(42)))
			require.Nil(t, err)

			p, pm, err := q.Quantize(m, 256, nil)
			require.Nil(t, err)
			require.NotEmpty(t, p)
			assert.Equal(t, palette.Color{R: 255}, p[0])
			for _, i := range pm.Pix {
				assert.Equal(t, uint8(0), i)
			}
		})
	}
}

func TestMedianCutSolidSingleEntry(t *testing.T) {
	m := solid(16, 16, color.NRGBA{255, 0, 0, 255})
	p, pm, err := medianCut{}.Quantize(m, 256, nil)
	require.Nil(t, err)
	assert.Equal(t, palette.Palette{{R: 255}}, p)
	assert.Len(t, pm.Pix, 256)
	assert.Len(t, pm.Palette, 1)
}

func TestReservedColor(t *testing.T) {
	m := noise(32, 32, 1)
	reserved := palette.Color{R: 255, B: 255}

	for _, method := range Methods {
		t.Run(method.String(), func(t *testing.T) {
			q, err := New(method, rand.New(rand.NewSource(7)))
			require.Nil(t, err)

			p, pm, err := q.Quantize(m, 16, &reserved)
			require.Nil(t, err)
			assert.True(t, len(p) <= 16)
			assert.Equal(t, reserved, p[len(p)-1])
			for _, i := range pm.Pix {
				assert.True(t, int(i) < len(p))
			}
		})
	}
}

func TestReservedParticipatesInSearch(t *testing.T) {
	// A magenta pixel maps to the reserved slot even though quantizing
	// produced its own entries
	m := fromColors(2, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 0, 255, 255})
	reserved := palette.Color{R: 255, B: 255}

	p, pm, err := medianCut{}.Quantize(m, 2, &reserved)
	require.Nil(t, err)
	require.Len(t, p, 2)
	// One bucket (mean of black and magenta) plus the reserved color
	assert.Equal(t, palette.Color{R: 128, B: 128}, p[0])
	assert.Equal(t, uint8(1), pm.Pix[1])
}

func TestReservedOnly(t *testing.T) {
	reserved := palette.Color{G: 255}
	p, pm, err := medianCut{}.Quantize(noise(4, 4, 3), 1, &reserved)
	require.Nil(t, err)
	assert.Equal(t, palette.Palette{reserved}, p)
	for _, i := range pm.Pix {
		assert.Equal(t, uint8(0), i)
	}
}

func TestMaxColors(t *testing.T) {
	m := noise(64, 64, 2)
	for _, method := range Methods {
		q, err := New(method, nil)
		require.Nil(t, err)

		for _, n := range []int{1, 2, 7, 256} {
			p, pm, err := q.Quantize(m, n, nil)
			require.Nil(t, err, method.String())
			assert.True(t, len(p) >= 1 && len(p) <= n, "%s %d -> %d", method, n, len(p))
			assert.Equal(t, m.Bounds(), pm.Bounds())
		}

		_, _, err = q.Quantize(m, 0, nil)
		assert.NotNil(t, err)
		_, _, err = q.Quantize(m, 257, nil)
		assert.NotNil(t, err)
		_, _, err = q.Quantize(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 16, nil)
		assert.NotNil(t, err)
	}
}

func TestMedianCutSplit(t *testing.T) {
	// Four greys split twice on the only varying channel; lower half gets
	// floor(n/2) entries
	m := fromColors(4,
		color.NRGBA{40, 0, 0, 255},
		color.NRGBA{10, 0, 0, 255},
		color.NRGBA{30, 0, 0, 255},
		color.NRGBA{20, 0, 0, 255},
	)

	p, pm, err := medianCut{}.Quantize(m, 2, nil)
	require.Nil(t, err)
	assert.Equal(t, palette.Palette{{R: 15}, {R: 35}}, p)
	assert.Equal(t, []uint8{1, 0, 1, 0}, pm.Pix)

	p, _, err = medianCut{}.Quantize(m, 4, nil)
	require.Nil(t, err)
	assert.Equal(t, palette.Palette{{R: 10}, {R: 20}, {R: 30}, {R: 40}}, p)
}

func TestMedianCutStopsOnUniformBuckets(t *testing.T) {
	m := fromColors(2,
		color.NRGBA{0, 0, 0, 255},
		color.NRGBA{0, 0, 0, 255},
		color.NRGBA{255, 255, 255, 255},
		color.NRGBA{255, 255, 255, 255},
	)
	p, _, err := medianCut{}.Quantize(m, 256, nil)
	require.Nil(t, err)
	assert.Equal(t, palette.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}, p)
}

func TestWidestChannel(t *testing.T) {
	tables := []struct {
		b   bucket
		max int
		ch  channel
	}{
		{bucket{{R: 0, G: 0, B: 0}, {R: 10, G: 5, B: 1}}, 10, red},
		{bucket{{R: 0, G: 0, B: 0}, {R: 5, G: 10, B: 1}}, 10, green},
		{bucket{{R: 0, G: 0, B: 0}, {R: 5, G: 1, B: 10}}, 10, blue},
		// Ties between red and green fall through to green
		{bucket{{R: 0, G: 0, B: 0}, {R: 10, G: 10, B: 1}}, 10, green},
		{bucket{{R: 0, G: 0, B: 0}, {R: 10, G: 1, B: 10}}, 10, blue},
	}
	for _, table := range tables {
		max, ch := table.b.widest()
		assert.Equal(t, table.max, max)
		assert.Equal(t, table.ch, ch)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	m := noise(120, 100, 9)

	q1, _ := New(KMeans, rand.New(rand.NewSource(5)))
	q2, _ := New(KMeans, rand.New(rand.NewSource(5)))

	p1, pm1, err := q1.Quantize(m, 32, nil)
	require.Nil(t, err)
	p2, pm2, err := q2.Quantize(m, 32, nil)
	require.Nil(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, pm1.Pix, pm2.Pix)
	assert.Len(t, p1, 32)
}

func TestKMeansFewSamples(t *testing.T) {
	m := fromColors(3, color.NRGBA{1, 2, 3, 255}, color.NRGBA{4, 5, 6, 255}, color.NRGBA{7, 8, 9, 255})
	q, _ := New(KMeans, rand.New(rand.NewSource(1)))

	p, pm, err := q.Quantize(m, 256, nil)
	require.Nil(t, err)
	assert.Len(t, p, 3)
	assert.ElementsMatch(t, palette.Palette{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}, {R: 7, G: 8, B: 9}}, p)
	for i, idx := range pm.Pix {
		assert.Equal(t, palette.FromColor(m.At(i, 0)), p[idx])
	}
}

func TestOctreeExactWhenFewColors(t *testing.T) {
	m := fromColors(2,
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{0, 255, 0, 255},
		color.NRGBA{0, 0, 255, 255},
		color.NRGBA{255, 0, 0, 255},
	)
	p, pm, err := octree{}.Quantize(m, 256, nil)
	require.Nil(t, err)
	assert.Len(t, p, 3)
	for i, idx := range pm.Pix {
		assert.Equal(t, palette.FromColor(m.At(i%2, i/2)), p[idx])
	}
}

func TestOctreeReduces(t *testing.T) {
	m := noise(64, 64, 4)
	p, _, err := octree{}.Quantize(m, 64, nil)
	require.Nil(t, err)
	assert.True(t, len(p) <= 64)
	assert.True(t, len(p) > 1)
}
