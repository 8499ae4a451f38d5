package plugin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/vibrant/pkg/vibrant"
)

// Mock implementations for testing.
type mockQuantizer struct {
	swatches  []SwatchData
	metadata  PluginInfo
	err       error
	gotPixels []byte
	gotCount  int
}

func (m *mockQuantizer) Quantize(pixels []byte, colorCount int) ([]SwatchData, error) {
	m.gotPixels = pixels
	m.gotCount = colorCount
	if m.err != nil {
		return nil, m.err
	}
	return m.swatches, nil
}

func (m *mockQuantizer) GetMetadata() PluginInfo {
	return m.metadata
}

type mockGenerator struct {
	palette  PaletteData
	metadata PluginInfo
	err      error
}

func (m *mockGenerator) Generate(_ []SwatchData) (PaletteData, error) {
	if m.err != nil {
		return PaletteData{}, m.err
	}
	return m.palette, nil
}

func (m *mockGenerator) GetMetadata() PluginInfo {
	return m.metadata
}

func dispense(t *testing.T, cfg ServeConfig, name string) any {
	t.Helper()
	client, _ := plugin.TestPluginRPCConn(t, cfg.Plugins(), nil)
	t.Cleanup(func() { client.Close() })

	raw, err := client.Dispense(name)
	if err != nil {
		t.Fatalf("Dispense(%q) error = %v", name, err)
	}
	return raw
}

func TestQuantizerRPC(t *testing.T) {
	mock := &mockQuantizer{
		swatches: []SwatchData{
			{R: 255, G: 0, B: 0, Population: 70},
			{R: 0, G: 0, B: 255, Population: 30},
		},
		metadata: PluginInfo{
			Name:            "test-quantizer",
			Kind:            QuantizerPluginName,
			Version:         "1.0.0",
			ProtocolVersion: ProtocolVersion,
		},
	}

	raw := dispense(t, ServeConfig{Quantizer: mock}, QuantizerPluginName)
	client, ok := raw.(*QuantizerRPCClient)
	if !ok {
		t.Fatalf("Dispense returned %T, want *QuantizerRPCClient", raw)
	}

	t.Run("Quantize", func(t *testing.T) {
		pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
		got, err := client.Quantize(pixels, 8)
		if err != nil {
			t.Fatalf("Quantize() error = %v", err)
		}
		if diff := cmp.Diff(mock.swatches, got); diff != "" {
			t.Errorf("Quantize() mismatch (-want +got):\n%s", diff)
		}
		if mock.gotCount != 8 {
			t.Errorf("plugin received colorCount %d, want 8", mock.gotCount)
		}
		if diff := cmp.Diff(pixels, mock.gotPixels); diff != "" {
			t.Errorf("plugin received pixels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetMetadata", func(t *testing.T) {
		if diff := cmp.Diff(mock.metadata, client.GetMetadata()); diff != "" {
			t.Errorf("GetMetadata() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestQuantizerRPCError(t *testing.T) {
	mock := &mockQuantizer{err: errors.New("boom")}
	client := dispense(t, ServeConfig{Quantizer: mock}, QuantizerPluginName).(*QuantizerRPCClient)

	_, err := client.Quantize(nil, 4)
	if err == nil {
		t.Fatal("Quantize() expected error, got nil")
	}
	if err.Error() != "boom" {
		t.Errorf("Quantize() error = %q, want %q", err.Error(), "boom")
	}
}

func TestGeneratorRPC(t *testing.T) {
	mock := &mockGenerator{
		palette: PaletteData{Slots: map[string]SwatchData{
			"vibrant":    {R: 255, G: 0, B: 0, Population: 70},
			"dark_muted": {R: 20, G: 20, B: 30, Population: 5},
		}},
		metadata: PluginInfo{Name: "test-generator", Kind: GeneratorPluginName},
	}

	client := dispense(t, ServeConfig{Generator: mock}, GeneratorPluginName).(*GeneratorRPCClient)

	got, err := client.Generate([]SwatchData{{R: 255, Population: 70}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if diff := cmp.Diff(mock.palette, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}

	palette, err := got.Palette()
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	if palette.Vibrant() == nil || palette.Vibrant().Hex() != "#ff0000" {
		t.Errorf("Vibrant() = %v, want #ff0000", palette.Vibrant())
	}
	if palette.Muted() != nil {
		t.Errorf("Muted() = %v, want nil", palette.Muted())
	}
}

func TestServeConfigPlugins(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServeConfig
		want []string
	}{
		{name: "empty", cfg: ServeConfig{}, want: nil},
		{name: "quantizer only", cfg: ServeConfig{Quantizer: &mockQuantizer{}}, want: []string{QuantizerPluginName}},
		{name: "both", cfg: ServeConfig{Quantizer: &mockQuantizer{}, Generator: &mockGenerator{}}, want: []string{QuantizerPluginName, GeneratorPluginName}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugins := tt.cfg.Plugins()
			if len(plugins) != len(tt.want) {
				t.Fatalf("Plugins() has %d entries, want %d", len(plugins), len(tt.want))
			}
			for _, name := range tt.want {
				if _, ok := plugins[name]; !ok {
					t.Errorf("Plugins() missing %q", name)
				}
			}
		})
	}
}

func TestPaletteDataRoundTrip(t *testing.T) {
	red := vibrant.NewSwatch(vibrant.RGB{R: 255}, 70)
	slate := vibrant.NewSwatch(vibrant.RGB{R: 40, G: 44, B: 52}, 12)
	palette, err := vibrant.NewPalette(map[vibrant.Slot]vibrant.Swatch{
		vibrant.SlotVibrant:   red,
		vibrant.SlotDarkMuted: slate,
	})
	if err != nil {
		t.Fatalf("NewPalette() error = %v", err)
	}

	back, err := NewPaletteData(palette).Palette()
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	if got := back.DarkMuted(); got == nil || !got.Equal(slate) || got.Population() != 12 {
		t.Errorf("DarkMuted() = %v, want %v", got, slate)
	}
	if back.Len() != 2 {
		t.Errorf("Len() = %d, want 2", back.Len())
	}
}

func TestPaletteDataInvalid(t *testing.T) {
	tests := []struct {
		name string
		data PaletteData
	}{
		{
			name: "unknown slot",
			data: PaletteData{Slots: map[string]SwatchData{"sparkly": {R: 1}}},
		},
		{
			name: "duplicate swatch",
			data: PaletteData{Slots: map[string]SwatchData{
				"vibrant": {R: 200, G: 10, B: 10},
				"muted":   {R: 200, G: 10, B: 10},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.data.Palette(); err == nil {
				t.Error("Palette() expected error, got nil")
			}
		})
	}
}
