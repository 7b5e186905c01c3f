package indexbmp

import "math"

// ProgressFunc receives overall progress as a percentage. Values never
// decrease and 100 is only reported once everything has succeeded. It is
// called synchronously from the converting goroutine and cannot fail; it
// should return promptly.
type ProgressFunc func(percent int)

// Per-image milestones
const (
	progressStart     = 10
	progressDecoded   = 20
	progressPlanned   = 30
	progressResampled = 50
	progressQuantized = 70
	progressDithered  = 85
	progressEncoded   = 95
	progressDone      = 100

	// Share of an archive conversion reserved for extraction
	progressExtracted = 20
)

type tracker struct {
	fn   ProgressFunc
	last int
}

func newTracker(fn ProgressFunc) *tracker {
	return &tracker{fn: fn, last: -1}
}

func (t *tracker) report(percent int) {
	if t.fn == nil || percent <= t.last {
		return
	}
	if percent > 100 {
		percent = 100
	}
	t.last = percent
	t.fn(percent)
}

// band maps 0-100 onto the lo-hi slice of the overall progress
func (t *tracker) band(lo, hi float64) *band {
	return &band{t: t, lo: lo, hi: hi}
}

type band struct {
	t      *tracker
	lo, hi float64
}

func (b *band) report(percent int) {
	if percent >= 100 {
		b.t.report(int(math.Floor(b.hi)))
		return
	}
	// Floor so only the very end of the final band reaches 100
	b.t.report(int(math.Floor(b.lo + (b.hi-b.lo)*float64(percent)/100)))
}
