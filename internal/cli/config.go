package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

// Environment variables that override flag defaults. Explicit flags win.
const (
	EnvColours         = "VIBRANT_COLOURS"
	EnvQuality         = "VIBRANT_QUALITY"
	EnvMaxDimension    = "VIBRANT_MAX_DIMENSION"
	EnvQuantizer       = "VIBRANT_QUANTIZER"
	EnvQuantizerPlugin = "VIBRANT_QUANTIZER_PLUGIN"
	EnvGeneratorPlugin = "VIBRANT_GENERATOR_PLUGIN"
)

// MaxColours is the upper bound accepted for --colours.
const MaxColours = 256

// Output formats.
const (
	FormatText = "text"
	FormatHex  = "hex"
	FormatJSON = "json"
)

// Built-in quantizers.
const (
	QuantizerMMCQ   = "mmcq"
	QuantizerKMeans = "kmeans"
)

// Config holds the extract command settings.
type Config struct {
	Colours         int
	Quality         int
	MaxDimension    int
	Filters         []string
	NoDefaultFilter bool
	Format          string
	Output          string
	Preview         bool
	Quantizer       string
	QuantizerPlugin string
	GeneratorPlugin string
	Async           bool
	Workers         int
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Colours:   vibrant.DefaultColorCount,
		Quality:   vibrant.DefaultQuality,
		Format:    FormatText,
		Quantizer: QuantizerMMCQ,
		Workers:   4,
	}
}

// RegisterFlags binds the config fields to fs, using the current field
// values as defaults.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.Colours, "colours", "c", c.Colours, "maximum number of swatches to quantize (0-256, 0 = dominant colour only)")
	fs.IntVarP(&c.Quality, "quality", "q", c.Quality, "downscale divisor, 1 = full size")
	fs.IntVarP(&c.MaxDimension, "max-dimension", "d", c.MaxDimension, "cap the longer image side, overrides --quality when > 0")
	fs.StringArrayVar(&c.Filters, "filter", c.Filters, "add a pixel filter (default, white, black); repeatable")
	fs.BoolVar(&c.NoDefaultFilter, "no-default-filter", c.NoDefaultFilter, "do not reject near-transparent pixels")
	fs.StringVarP(&c.Format, "format", "f", c.Format, "output format (text, hex, json)")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output file (default: stdout)")
	fs.BoolVar(&c.Preview, "preview", c.Preview, "show colour blocks when writing to a terminal")
	fs.StringVar(&c.Quantizer, "quantizer", c.Quantizer, "built-in quantizer (mmcq, kmeans), ignored with --quantizer-plugin")
	fs.StringVar(&c.QuantizerPlugin, "quantizer-plugin", c.QuantizerPlugin, "path to a quantizer plugin binary")
	fs.StringVar(&c.GeneratorPlugin, "generator-plugin", c.GeneratorPlugin, "path to a generator plugin binary")
	fs.BoolVar(&c.Async, "async", c.Async, "extract on the worker pool")
	fs.IntVar(&c.Workers, "workers", c.Workers, "worker pool size for --async and directory input")
}

// ApplyEnv overlays environment variables onto c. Call it before
// RegisterFlags so the environment only changes defaults.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvColours, &c.Colours},
		{EnvQuality, &c.Quality},
		{EnvMaxDimension, &c.MaxDimension},
	}
	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvQuantizer); ok && v != "" {
		c.Quantizer = v
	}
	if v, ok := lookup(EnvQuantizerPlugin); ok {
		c.QuantizerPlugin = v
	}
	if v, ok := lookup(EnvGeneratorPlugin); ok {
		c.GeneratorPlugin = v
	}
	return nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Colours < 0 || c.Colours > MaxColours {
		return fmt.Errorf("colours must be between 0 and %d, got %d", MaxColours, c.Colours)
	}
	if c.Quality < 1 {
		return fmt.Errorf("quality must be at least 1, got %d", c.Quality)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension cannot be negative, got %d", c.MaxDimension)
	}
	if !slices.Contains([]string{FormatText, FormatHex, FormatJSON}, c.Format) {
		return fmt.Errorf("invalid format: %s (valid: text, hex, json)", c.Format)
	}
	if _, err := c.BuiltinQuantizer(); err != nil {
		return err
	}
	builtin := vibrant.BuiltinFilters()
	for _, id := range c.Filters {
		if _, ok := builtin[id]; !ok {
			return fmt.Errorf("unknown filter: %s (valid: default, white, black)", id)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// FilterList resolves the configured filters. The default filter comes
// first unless disabled; duplicates are dropped.
func (c Config) FilterList() []vibrant.Filter {
	builtin := vibrant.BuiltinFilters()
	set := vibrant.NewFilterSet()
	if !c.NoDefaultFilter {
		set.Add(vibrant.DefaultFilter)
	}
	for _, id := range c.Filters {
		if f, ok := builtin[id]; ok && !set.Has(id) {
			set.Add(f)
		}
	}
	return set.Filters()
}

// BuiltinQuantizer returns the quantizer named by c.Quantizer. An empty
// name selects median cut.
func (c Config) BuiltinQuantizer() (vibrant.Quantizer, error) {
	switch c.Quantizer {
	case "", QuantizerMMCQ:
		return vibrant.NewMMCQ(), nil
	case QuantizerKMeans:
		return vibrant.NewKMeans(), nil
	default:
		return nil, fmt.Errorf("unknown quantizer: %s (valid: mmcq, kmeans)", c.Quantizer)
	}
}
