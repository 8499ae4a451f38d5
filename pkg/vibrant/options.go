package vibrant

import (
	"slices"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultColorCount is the default maximum number of swatches produced by the quantizer.
	DefaultColorCount = 64

	// DefaultQuality is the default downscale divisor applied when no maximum dimension is set.
	DefaultQuality = 5
)

// Options is the configuration for one extraction run.
type Options struct {
	// ColorCount is the maximum number of swatches the quantizer may emit.
	// Values <= 0 request the single dominant colour.
	ColorCount int

	// Quality divides both image dimensions before extraction (1 = full size).
	// Ignored when MaxDimension is set.
	Quality int

	// MaxDimension caps the longer image side. Zero means use Quality.
	MaxDimension int

	// Quantizer reduces the filtered pixels to swatches.
	Quantizer Quantizer

	// Generator assigns swatches to palette slots.
	Generator Generator

	// Filters are ANDed into the combined pixel filter for the run.
	Filters []Filter

	// Logger receives debug records for each pipeline stage.
	Logger hclog.Logger
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		ColorCount: DefaultColorCount,
		Quality:    DefaultQuality,
		Quantizer:  NewMMCQ(),
		Generator:  NewDefaultGenerator(),
		Filters:    []Filter{DefaultFilter},
		Logger:     hclog.NewNullLogger(),
	}
}

// normalized fills unset strategies and copies the filter list so the
// returned value shares no mutable state with the caller.
func (o Options) normalized() Options {
	if o.Quantizer == nil {
		o.Quantizer = NewMMCQ()
	}
	if o.Generator == nil {
		o.Generator = NewDefaultGenerator()
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	if o.Quality < 1 {
		o.Quality = 1
	}
	o.MaxDimension = max(o.MaxDimension, 0)
	o.Filters = slices.Clone(o.Filters)
	return o
}
