package plugin

// QuantizerPlugin is implemented by external quantizer plugins.
type QuantizerPlugin interface {
	// Quantize reduces RGBA pixels to at most colorCount swatches.
	// Pixels with zero alpha have already been filtered out by the host.
	Quantize(pixels []byte, colorCount int) ([]SwatchData, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}

// GeneratorPlugin is implemented by external generator plugins.
type GeneratorPlugin interface {
	// Generate assigns swatches to palette slots.
	Generate(swatches []SwatchData) (PaletteData, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}
