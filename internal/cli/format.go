package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

// previewWidth is the visible width of a preview block plus its gap.
const previewWidth = 5

// result is the outcome of extracting one image.
type result struct {
	Path    string
	Palette *vibrant.Palette
}

// formatPalette renders one palette in the given format.
func formatPalette(p *vibrant.Palette, format string, preview bool) (string, error) {
	switch format {
	case FormatText:
		return formatText(p, preview), nil
	case FormatHex:
		return formatHex(p), nil
	case FormatJSON:
		data, err := p.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to marshal palette: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("invalid format: %s", format)
	}
}

// formatResults renders the palettes of several images. JSON output is a
// single object keyed by image path.
func formatResults(results []result, format string, preview bool) (string, error) {
	if format == FormatJSON {
		byPath := make(map[string]*vibrant.Palette, len(results))
		for _, r := range results {
			byPath[r.Path] = r.Palette
		}
		data, err := json.MarshalIndent(byPath, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal palettes: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", r.Path)
		out, err := formatPalette(r.Palette, format, preview)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func formatText(p *vibrant.Palette, preview bool) string {
	table := NewTable([]string{"Slot", "Hex", "RGB", "HSL", "Population"})
	swatches := make([]*vibrant.Swatch, 0, vibrant.SlotCount)

	for _, slot := range vibrant.AllSlots() {
		sw, ok := p.Get(slot)
		swatches = append(swatches, sw)
		if !ok {
			table.AddRow([]string{slot.String(), "-", "-", "-", "-"})
			continue
		}
		h, s, l := sw.HSL()
		table.AddRow([]string{
			slot.String(),
			sw.Hex(),
			sw.RGB().String(),
			fmt.Sprintf("%.0f, %.0f%%, %.0f%%", h, s*100, l*100),
			strconv.Itoa(sw.Population()),
		})
	}

	if preview {
		table.SetRowPrefix(previewWidth, func(row int) string {
			return colourBlock(swatches[row])
		})
	}
	return table.Render()
}

func formatHex(p *vibrant.Palette) string {
	var b strings.Builder
	for slot, sw := range p.All() {
		fmt.Fprintf(&b, "%s %s\n", slot.Key(), sw.Hex())
	}
	return b.String()
}

// colourBlock returns a truecolour block for sw, or blank space for an
// empty slot.
func colourBlock(sw *vibrant.Swatch) string {
	if sw == nil {
		return strings.Repeat(" ", previewWidth)
	}
	rgb := sw.RGB()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm    \x1b[0m ", rgb.R, rgb.G, rgb.B)
}
