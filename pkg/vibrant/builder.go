package vibrant

import (
	"context"
	"image"

	"github.com/hashicorp/go-hclog"

	imgutil "github.com/jmylchreest/vibrant/internal/image"
)

// Builder provides a fluent interface for configuring an extraction run.
type Builder struct {
	src     Source
	opts    Options
	filters *FilterSet
	pool    *Pool
}

// From creates a builder for a decoded image with default options.
func From(img image.Image) *Builder {
	return FromSource(ImageSource{Image: img})
}

// FromPixels creates a builder for a raw RGBA buffer of width*height*4
// bytes. A buffer of the wrong length is reported when the palette is
// requested.
func FromPixels(pixels []byte, width, height int) *Builder {
	img, err := imgutil.NewRaw(pixels, width, height)
	return FromSource(rawSource{img: img, err: err})
}

// FromSource creates a builder for any pixel source with default options.
func FromSource(src Source) *Builder {
	return NewBuilder(src, DefaultOptions())
}

// NewBuilder creates a builder starting from the given options.
func NewBuilder(src Source, opts Options) *Builder {
	return &Builder{
		src:     src,
		opts:    opts,
		filters: NewFilterSet(opts.Filters...),
	}
}

// MaxColorCount sets the maximum number of swatches the quantizer produces.
func (b *Builder) MaxColorCount(n int) *Builder {
	b.opts.ColorCount = n
	return b
}

// MaxDimension caps the longer image side. It takes precedence over Quality.
func (b *Builder) MaxDimension(d int) *Builder {
	b.opts.MaxDimension = d
	return b
}

// Quality sets the downscale divisor (1 = full size).
func (b *Builder) Quality(q int) *Builder {
	b.opts.Quality = q
	return b
}

// AddFilter appends a pixel filter.
func (b *Builder) AddFilter(f Filter) *Builder {
	b.filters.Add(f)
	return b
}

// RemoveFilter removes every filter with the given ID.
func (b *Builder) RemoveFilter(id string) *Builder {
	b.filters.Remove(id)
	return b
}

// ClearFilters removes all filters, including the default one.
func (b *Builder) ClearFilters() *Builder {
	b.filters = NewFilterSet()
	return b
}

// UseQuantizer substitutes the quantizer strategy.
func (b *Builder) UseQuantizer(q Quantizer) *Builder {
	b.opts.Quantizer = q
	return b
}

// UseGenerator substitutes the generator strategy.
func (b *Builder) UseGenerator(g Generator) *Builder {
	b.opts.Generator = g
	return b
}

// WithLogger sets the logger used for pipeline debug output.
func (b *Builder) WithLogger(l hclog.Logger) *Builder {
	b.opts.Logger = l
	return b
}

// UsePool runs asynchronous extractions on the given pool.
func (b *Builder) UsePool(p *Pool) *Builder {
	b.pool = p
	return b
}

// Build snapshots the configuration into a run. Later builder changes do
// not affect the returned run.
func (b *Builder) Build() *Vibrant {
	opts := b.opts
	opts.Filters = b.filters.Filters()
	return New(b.src, opts).UsePool(b.pool)
}

// GetPalette builds the run and extracts the palette synchronously.
func (b *Builder) GetPalette(ctx context.Context) (*Palette, error) {
	return b.Build().GetPalette(ctx)
}

// GetPaletteAsync builds the run and extracts the palette in the background.
func (b *Builder) GetPaletteAsync(ctx context.Context) *Future {
	return b.Build().GetPaletteAsync(ctx)
}
