// Package plugin provides the public API for vibrant strategy plugins.
// External plugins should import this package instead of internal packages.
package plugin

import (
	"fmt"

	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

// PluginInfo contains metadata about a plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"` // "quantizer" or "generator"
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
}

// SwatchData is the wire form of a swatch.
type SwatchData struct {
	R          uint8 `json:"r"`
	G          uint8 `json:"g"`
	B          uint8 `json:"b"`
	Population int   `json:"population"`
}

// NewSwatchData converts a swatch to its wire form.
func NewSwatchData(sw vibrant.Swatch) SwatchData {
	rgb := sw.RGB()
	return SwatchData{R: rgb.R, G: rgb.G, B: rgb.B, Population: sw.Population()}
}

// Swatch converts the wire form back to a swatch.
func (d SwatchData) Swatch() vibrant.Swatch {
	return vibrant.NewSwatch(vibrant.RGB{R: d.R, G: d.G, B: d.B}, d.Population)
}

// QuantizeArgs carries a quantization request.
type QuantizeArgs struct {
	Pixels     []byte `json:"pixels"`
	ColorCount int    `json:"color_count"`
}

// PaletteData is the wire form of a palette, keyed by slot key
// (e.g., "dark_vibrant"). Empty slots are absent.
type PaletteData struct {
	Slots map[string]SwatchData `json:"slots"`
}

// NewPaletteData converts a palette to its wire form.
func NewPaletteData(p *vibrant.Palette) PaletteData {
	data := PaletteData{Slots: make(map[string]SwatchData)}
	for slot, sw := range p.All() {
		data.Slots[slot.Key()] = NewSwatchData(sw)
	}
	return data
}

// Palette converts the wire form back to a palette.
func (d PaletteData) Palette() (*vibrant.Palette, error) {
	slots := make(map[vibrant.Slot]vibrant.Swatch, len(d.Slots))
	for key, sw := range d.Slots {
		slot, err := vibrant.ParseSlot(key)
		if err != nil {
			return nil, fmt.Errorf("invalid palette data: %w", err)
		}
		slots[slot] = sw.Swatch()
	}
	return vibrant.NewPalette(slots)
}

// SwatchesToData converts swatches to their wire form.
func SwatchesToData(swatches []vibrant.Swatch) []SwatchData {
	out := make([]SwatchData, len(swatches))
	for i, sw := range swatches {
		out[i] = NewSwatchData(sw)
	}
	return out
}

// DataToSwatches converts wire swatches back to swatches.
func DataToSwatches(data []SwatchData) []vibrant.Swatch {
	out := make([]vibrant.Swatch, len(data))
	for i, d := range data {
		out[i] = d.Swatch()
	}
	return out
}
