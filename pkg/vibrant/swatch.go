package vibrant

import (
	"encoding/json"
	"fmt"
)

// Swatch is a representative colour and the number of source pixels it
// stands in for. Swatches are immutable; two swatches are equal when their
// colours are equal, regardless of population.
type Swatch struct {
	rgb        RGB
	population int

	hue, saturation, lightness float64
}

// NewSwatch creates a swatch for the given colour and population.
// Negative populations are clamped to zero.
func NewSwatch(rgb RGB, population int) Swatch {
	population = max(population, 0)
	h, s, l := rgb.HSL()
	return Swatch{
		rgb:        rgb,
		population: population,
		hue:        h,
		saturation: s,
		lightness:  l,
	}
}

// RGB returns the swatch colour.
func (s Swatch) RGB() RGB {
	return s.rgb
}

// Population returns the number of pixels the swatch represents.
func (s Swatch) Population() int {
	return s.population
}

// HSL returns the swatch colour in HSL.
func (s Swatch) HSL() (h, sat, l float64) {
	return s.hue, s.saturation, s.lightness
}

// Hex returns the swatch colour as a hex string.
func (s Swatch) Hex() string {
	return s.rgb.Hex()
}

// Equal reports whether both swatches have the same colour.
func (s Swatch) Equal(other Swatch) bool {
	return s.rgb == other.rgb
}

// String returns a human-readable representation of the swatch.
func (s Swatch) String() string {
	return fmt.Sprintf("%s (population: %d)", s.rgb.Hex(), s.population)
}

// SwatchJSON represents a swatch in JSON output format.
type SwatchJSON struct {
	Hex        string     `json:"hex"`
	RGB        RGB        `json:"rgb"`
	HSL        [3]float64 `json:"hsl"`
	Population int        `json:"population"`
}

// MarshalJSON implements json.Marshaler.
func (s Swatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(SwatchJSON{
		Hex:        s.rgb.Hex(),
		RGB:        s.rgb,
		HSL:        [3]float64{s.hue, s.saturation, s.lightness},
		Population: s.population,
	})
}
