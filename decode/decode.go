/*
Package decode turns compressed image files into the *image.NRGBA rasters
consumed by the rest of the pipeline.

PNG, JPEG, GIF, BMP, WebP and TIFF are supported. Decoding runs with a
bounded wait so a pathological file cannot stall a batch.
*/
package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"time"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// DefaultTimeout bounds how long a single decode may take
const DefaultTimeout = 30 * time.Second

var (
	// ErrTimeout is returned when decoding exceeds the bounded wait
	ErrTimeout = errors.New("decode: timed out")
	// ErrEmptyImage is returned for an image with zero width or height
	ErrEmptyImage = errors.New("decode: image has no pixels")
	errNoData     = errors.New("decode: no data")
)

// Decoder decodes image files. The zero value uses DefaultTimeout.
type Decoder struct {
	Timeout time.Duration
}

type result struct {
	m      image.Image
	format string
	err    error
}

// Decode decodes data and returns it as a non-premultiplied raster with its
// origin at (0, 0), along with the detected format name
func (d *Decoder) Decode(ctx context.Context, data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", errNoData
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resc := make(chan result, 1)
	go func() {
		m, format, err := image.Decode(bytes.NewReader(data))
		resc <- result{m, format, err}
	}()

	select {
	case res := <-resc:
		if res.err != nil {
			return nil, "", fmt.Errorf("decode: %w", res.err)
		}
		b := res.m.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return nil, res.format, ErrEmptyImage
		}
		return ToNRGBA(res.m), res.format, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, "", ErrTimeout
		}
		return nil, "", ctx.Err()
	}
}

// Config returns the dimensions and format of data without decoding the
// pixels
func Config(data []byte) (image.Config, string, error) {
	return image.DecodeConfig(bytes.NewReader(data))
}

// ToNRGBA converts m to an *image.NRGBA whose bounds start at the origin. An
// NRGBA already at the origin is returned as is.
func ToNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), m, b.Min, draw.Src)
	return out
}
