// vibrant-popularity - Popularity quantizer (vibrant strategy plugin)
//
// Replaces median cut with a popularity quantizer: pixels are bucketed at
// 5 bits per channel and the most populated buckets become the swatches.
// Fast, but prone to losing small accent colours.
//
// Build:
//   go build -o vibrant-popularity ./cmd/vibrant-popularity
//
// Usage:
//   vibrant extract --quantizer-plugin ./vibrant-popularity wallpaper.jpg
package main

import (
	"cmp"
	"os"
	"slices"

	"github.com/hashicorp/go-hclog"

	vplugin "github.com/jmylchreest/vibrant/pkg/plugin"
)

const (
	bits  = 5
	shift = 8 - bits
)

// PopularityQuantizer implements vplugin.QuantizerPlugin.
type PopularityQuantizer struct{}

type bucket struct {
	count   int
	r, g, b int
}

// Quantize returns the colorCount most populated buckets, each averaged
// over its member pixels.
func (PopularityQuantizer) Quantize(pixels []byte, colorCount int) ([]vplugin.SwatchData, error) {
	buckets := make(map[int]*bucket)
	for i := 0; i+3 < len(pixels); i += 4 {
		if pixels[i+3] == 0 {
			continue
		}
		r, g, b := int(pixels[i]), int(pixels[i+1]), int(pixels[i+2])
		key := (r>>shift)<<(2*bits) | (g>>shift)<<bits | b>>shift
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.count++
		bk.r += r
		bk.g += g
		bk.b += b
	}

	out := make([]vplugin.SwatchData, 0, len(buckets))
	for _, bk := range buckets {
		out = append(out, vplugin.SwatchData{
			R:          uint8((bk.r + bk.count/2) / bk.count),
			G:          uint8((bk.g + bk.count/2) / bk.count),
			B:          uint8((bk.b + bk.count/2) / bk.count),
			Population: bk.count,
		})
	}

	slices.SortFunc(out, func(a, b vplugin.SwatchData) int {
		if c := cmp.Compare(b.Population, a.Population); c != 0 {
			return c
		}
		if c := cmp.Compare(a.R, b.R); c != 0 {
			return c
		}
		if c := cmp.Compare(a.G, b.G); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})

	if n := max(colorCount, 1); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// GetMetadata returns plugin metadata.
func (PopularityQuantizer) GetMetadata() vplugin.PluginInfo {
	return vplugin.PluginInfo{
		Name:            "popularity",
		Kind:            vplugin.QuantizerPluginName,
		Version:         "0.1.0",
		ProtocolVersion: vplugin.ProtocolVersion,
		Description:     "Most populated 5-bit colour buckets",
	}
}

func main() {
	vplugin.Serve(vplugin.ServeConfig{
		Quantizer: PopularityQuantizer{},
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:       "vibrant-popularity",
			Output:     os.Stderr,
			Level:      hclog.Warn,
			JSONFormat: true,
		}),
	})
}
