/*
Package indexbmp converts arbitrary raster images into 8-bit palette indexed
bitmaps.

Each image is decoded, fitted within a maximum size that is a multiple of
16, resampled, reduced to at most 256 colors, optionally dithered and then
encoded. Batches and zip archives are processed one image at a time.
*/
package indexbmp

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/indexbmp/cache"
	"github.com/bodgit/indexbmp/decode"
)

// Converter runs the conversion pipeline with a fixed set of options
type Converter struct {
	opts    Options
	logger  *log.Logger
	decoder *decode.Decoder
	cache   *cache.Cache
}

// Option configures optional Converter behaviour
type Option func(*Converter)

// WithCache stores results in c and reuses them for identical inputs
func WithCache(c *cache.Cache) Option {
	return func(conv *Converter) {
		conv.cache = c
	}
}

// WithDecoder replaces the default image decoder
func WithDecoder(d *decode.Decoder) Option {
	return func(conv *Converter) {
		conv.decoder = d
	}
}

// New returns a Converter using opts. A nil logger discards all output.
func New(opts Options, logger *log.Logger, options ...Option) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	c := &Converter{
		opts:    opts,
		logger:  logger,
		decoder: &decode.Decoder{},
	}
	for _, o := range options {
		o(c)
	}

	return c, nil
}

// Options returns the options in use
func (c *Converter) Options() Options {
	return c.opts
}
