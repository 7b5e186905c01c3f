package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/indexbmp"
	"github.com/bodgit/indexbmp/archive"
	"github.com/bodgit/indexbmp/bmp"
	"github.com/bodgit/indexbmp/cache"
	"github.com/bodgit/indexbmp/decode"
	"github.com/bodgit/indexbmp/palette"
	"github.com/bodgit/indexbmp/quantize"
	"github.com/bodgit/indexbmp/resize"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func methods() string {
	s := make([]string, len(quantize.Methods))
	for i, m := range quantize.Methods {
		s[i] = string(m)
	}
	return strings.Join(s, ", ")
}

func filters() string {
	s := make([]string, len(resize.Filters))
	for i, f := range resize.Filters {
		s[i] = string(f)
	}
	return strings.Join(s, ", ")
}

func options(c *cli.Context) (indexbmp.Options, error) {
	opts := indexbmp.DefaultOptions()
	opts.MaxSize = c.Int("max-size")
	opts.Dithering = c.Bool("dither")
	opts.Sharpening = c.Bool("sharpen")
	opts.Seed = c.Int64("seed")

	method, err := quantize.ParseMethod(c.String("quantization"))
	if err != nil {
		return opts, err
	}
	opts.Quantization = method

	filter, err := resize.ParseFilter(c.String("interpolation"))
	if err != nil {
		return opts, err
	}
	opts.Interpolation = filter

	if s := c.String("transparent"); s != "" {
		col, err := palette.ParseHex(s)
		if err != nil {
			return opts, err
		}
		opts.TransparentMode = true
		opts.TransparentColor = &col
	}

	return opts, opts.Validate()
}

func writeResults(dir string, results []*indexbmp.Result) error {
	for _, r := range results {
		file, err := indexbmp.OutputPath(dir, r.Filename)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(file, r.Bitmap, 0o644); err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%dx%d, %d colors, %d bytes)\n", r.Source, file, r.Width, r.Height, r.Colors, r.Size)
	}
	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	opts, err := options(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var conv []indexbmp.Option
	if db := c.String("cache"); db != "" {
		cc, err := cache.New(db)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer cc.Close()
		conv = append(conv, indexbmp.WithCache(cc))
	}
	conv = append(conv, indexbmp.WithDecoder(&decode.Decoder{Timeout: c.Duration("timeout")}))

	converter, err := indexbmp.New(opts, logger, conv...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	progress := func(percent int) {
		logger.Printf("Progress: %d%%\n", percent)
	}

	ctx := context.Background()
	out := c.String("output")

	var paths []string
	for _, arg := range c.Args().Slice() {
		if !archive.IsArchive(arg) {
			paths = append(paths, arg)
			continue
		}

		data, err := ioutil.ReadFile(arg)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		results, err := converter.ConvertArchive(ctx, filepath.Base(arg), data, progress)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		dir := filepath.Join(out, strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)))
		if err := writeResults(dir, results); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if len(paths) == 0 {
		return nil
	}

	b, err := indexbmp.Gather(paths...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	results, err := converter.ConvertBatch(ctx, b, progress)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := writeResults(out, results); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func plan(name string, data []byte, maxSize int) (string, error) {
	cfg, format, err := decode.Config(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	w, h := resize.Dimensions(cfg.Width, cfg.Height, maxSize)
	return fmt.Sprintf("%s %dx%d -> %dx%d (%d bytes)", format, cfg.Width, cfg.Height, w, h, bmp.FileSize(w, h)), nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	opts := indexbmp.DefaultOptions()
	opts.MaxSize = c.Int("max-size")
	if err := opts.Validate(); err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, file := range c.Args().Slice() {
		fi, err := os.Stat(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		var b indexbmp.Batch
		switch {
		case fi.IsDir():
			if b, err = indexbmp.Gather(file); err != nil {
				return cli.NewExitError(err, 1)
			}
		case archive.IsArchive(file):
			data, err := ioutil.ReadFile(file)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if b.Entries, err = archive.Entries(data); err != nil {
				return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
			}
		default:
			data, err := ioutil.ReadFile(file)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			s, err := plan(file, data, opts.MaxSize)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			fmt.Printf("%s: %s\n", file, s)
			continue
		}

		e, n, err := b.Largest()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		s, err := plan(e.Name, e.Data, opts.MaxSize)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		fmt.Printf("%s: %d images, largest %s: %s\n", file, n, e.Name, s)
	}

	return nil
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	db := c.String("cache")
	if db == "" {
		return nil, fmt.Errorf("no cache database given")
	}
	return cache.New(db)
}

func main() {
	app := cli.NewApp()

	app.Name = "indexbmp"
	app.Usage = "Convert images to 8-bit palette indexed bitmaps"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"INDEXBMP_CACHE"},
			Usage:   "path to conversion cache database",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	maxSize := &cli.IntFlag{
		Name:    "max-size",
		EnvVars: []string{"INDEXBMP_MAX_SIZE"},
		Value:   256,
		Usage:   "maximum width or height, one of 256, 512 or 1024",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images, directories and zip archives",
			Description: "Each bitmap is written to the output directory under the name of its source image. Images from a zip archive are written to a directory named after the archive.",
			ArgsUsage:   "FILE|DIRECTORY|ZIP...",
			Flags: []cli.Flag{
				maxSize,
				&cli.StringFlag{
					Name:    "quantization",
					Aliases: []string{"q"},
					EnvVars: []string{"INDEXBMP_QUANTIZATION"},
					Value:   string(quantize.MedianCut),
					Usage:   "palette algorithm, one of " + methods(),
				},
				&cli.StringFlag{
					Name:    "interpolation",
					Aliases: []string{"i"},
					EnvVars: []string{"INDEXBMP_INTERPOLATION"},
					Value:   string(resize.Progressive),
					Usage:   "resampling filter, one of " + filters(),
				},
				&cli.BoolFlag{
					Name:    "dither",
					EnvVars: []string{"INDEXBMP_DITHER"},
					Usage:   "apply Floyd-Steinberg dithering",
				},
				&cli.BoolFlag{
					Name:    "sharpen",
					EnvVars: []string{"INDEXBMP_SHARPEN"},
					Usage:   "sharpen after each progressive step",
				},
				&cli.StringFlag{
					Name:    "transparent",
					EnvVars: []string{"INDEXBMP_TRANSPARENT"},
					Usage:   "reserve the last palette entry for this hex color",
				},
				&cli.Int64Flag{
					Name:    "seed",
					EnvVars: []string{"INDEXBMP_SEED"},
					Usage:   "random seed for k-means",
				},
				&cli.DurationFlag{
					Name:    "timeout",
					EnvVars: []string{"INDEXBMP_TIMEOUT"},
					Value:   decode.DefaultTimeout,
					Usage:   "maximum time to spend decoding an image",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					EnvVars: []string{"INDEXBMP_OUTPUT"},
					Value:   ".",
					Usage:   "output directory",
				},
			},
			Action: convert,
		},
		{
			Name:        "info",
			Usage:       "Show the output dimensions of images",
			Description: "Directories and zip archives are summarised by their largest image.",
			ArgsUsage:   "FILE|DIRECTORY|ZIP...",
			Flags:       []cli.Flag{maxSize},
			Action:      info,
		},
		{
			Name:  "cache",
			Usage: "Manage the conversion cache",
			Subcommands: []*cli.Command{
				{
					Name:  "stats",
					Usage: "Show the number of cached bitmaps",
					Action: func(c *cli.Context) error {
						cc, err := openCache(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer cc.Close()

						n, err := cc.Len()
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						fmt.Println(n)

						return nil
					},
				},
				{
					Name:  "purge",
					Usage: "Remove every cached bitmap",
					Action: func(c *cli.Context) error {
						cc, err := openCache(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer cc.Close()

						if err := cc.Purge(); err != nil {
							return cli.NewExitError(err, 1)
						}
						newLogger(c).Println("Cache purged")

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
