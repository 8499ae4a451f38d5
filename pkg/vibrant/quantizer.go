package vibrant

// Quantizer reduces an RGBA pixel buffer to at most opts.ColorCount swatches.
// Pixels with zero alpha are excluded.
type Quantizer interface {
	Quantize(pixels []byte, opts Options) ([]Swatch, error)
}

// QuantizerFunc adapts a function to the Quantizer interface.
type QuantizerFunc func(pixels []byte, opts Options) ([]Swatch, error)

// Quantize calls f(pixels, opts).
func (f QuantizerFunc) Quantize(pixels []byte, opts Options) ([]Swatch, error) {
	return f(pixels, opts)
}

// Generator assigns swatches to the six palette slots.
type Generator interface {
	Generate(swatches []Swatch) (*Palette, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(swatches []Swatch) (*Palette, error)

// Generate calls f(swatches).
func (f GeneratorFunc) Generate(swatches []Swatch) (*Palette, error) {
	return f(swatches)
}
