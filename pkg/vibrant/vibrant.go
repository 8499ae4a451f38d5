package vibrant

import (
	"context"
	"errors"
	"fmt"
	"image"

	imgutil "github.com/jmylchreest/vibrant/internal/image"
)

var (
	// ErrNilImage is returned when a run is built from a nil image.
	ErrNilImage = imgutil.ErrNilImage

	// ErrInvalidPixels is returned when a raw buffer does not match its
	// dimensions.
	ErrInvalidPixels = imgutil.ErrInvalidPixels

	// ErrNoSource is returned when a run has no pixel source.
	ErrNoSource = errors.New("no pixel source configured")
)

// Source produces the RGBA pixel buffer for one extraction run, already
// downscaled according to maxDimension or quality.
type Source interface {
	Pixels(maxDimension, quality int) ([]byte, error)
}

// ImageSource adapts a decoded image to the Source interface.
type ImageSource struct {
	Image image.Image
}

// Pixels downscales the image and flattens it to RGBA bytes.
func (s ImageSource) Pixels(maxDimension, quality int) ([]byte, error) {
	if s.Image == nil {
		return nil, ErrNilImage
	}
	scaled := imgutil.Scale(s.Image, maxDimension, quality)
	return imgutil.Pixels(scaled)
}

// rawSource defers construction errors of a raw buffer until extraction.
type rawSource struct {
	img *image.NRGBA
	err error
}

func (s rawSource) Pixels(maxDimension, quality int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return ImageSource{Image: s.img}.Pixels(maxDimension, quality)
}

// Vibrant is a configured extraction run over one source.
// Options and the combined filter are fixed when the run is built.
type Vibrant struct {
	src    Source
	opts   Options
	filter Filter
	pool   *Pool
}

// New creates an extraction run. The options are copied.
func New(src Source, opts Options) *Vibrant {
	opts = opts.normalized()
	return &Vibrant{
		src:    src,
		opts:   opts,
		filter: CombineFilters(opts.Filters...),
	}
}

// Options returns a copy of the run options.
func (v *Vibrant) Options() Options {
	o := v.opts
	o.Filters = append([]Filter(nil), v.opts.Filters...)
	return o
}

// UsePool returns a copy of the run that schedules GetPaletteAsync on p.
// A nil pool starts a goroutine per request.
func (v *Vibrant) UsePool(p *Pool) *Vibrant {
	c := *v
	c.pool = p
	return &c
}

// GetPalette runs the pipeline synchronously.
func (v *Vibrant) GetPalette(ctx context.Context) (*Palette, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if v.src == nil {
		return nil, ErrNoSource
	}

	pixels, err := v.src.Pixels(v.opts.MaxDimension, v.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to read pixels: %w", err)
	}
	v.opts.Logger.Debug("pixels loaded", "bytes", len(pixels), "pixels", len(pixels)/4)

	return process(pixels, v.opts, v.filter)
}

// GetPaletteAsync runs the pipeline on the configured pool, or on a new
// goroutine when the run has no pool. The returned future completes once.
func (v *Vibrant) GetPaletteAsync(ctx context.Context) *Future {
	f := newFuture()
	task := func() {
		f.run(func() (*Palette, error) {
			return v.GetPalette(ctx)
		})
	}

	if v.pool == nil {
		go task()
		return f
	}
	if err := v.pool.Submit(task); err != nil {
		f.complete(nil, err)
	}
	return f
}

// Process runs the pipeline over an RGBA buffer that is already at the
// desired size: filter, quantize, filter swatches, generate.
func Process(pixels []byte, opts Options) (*Palette, error) {
	opts = opts.normalized()
	return process(pixels, opts, CombineFilters(opts.Filters...))
}

func process(pixels []byte, opts Options, filter Filter) (*Palette, error) {
	logger := opts.Logger

	filtered := ApplyFilter(pixels, filter)

	swatches, err := opts.Quantizer.Quantize(filtered, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize pixels: %w", err)
	}
	if limit := max(opts.ColorCount, 1); len(swatches) > limit {
		logger.Warn("quantizer exceeded colour count, truncating", "swatches", len(swatches), "limit", limit)
		swatches = swatches[:limit]
	}
	kept := FilterSwatches(swatches, filter)
	logger.Debug("swatches filtered", "filter", filter.ID, "quantized", len(swatches), "kept", len(kept))

	palette, err := opts.Generator.Generate(kept)
	if err != nil {
		return nil, fmt.Errorf("failed to generate palette: %w", err)
	}
	if palette == nil {
		palette = &Palette{}
	}
	logger.Debug("palette generated", "filled", palette.Len())
	return palette, nil
}
