package vibrant

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func solid(n int, r, g, b, a byte) []byte {
	out := make([]byte, 0, n*4)
	for range n {
		out = append(out, r, g, b, a)
	}
	return out
}

func quantize(t *testing.T, pixels []byte, colors int) []Swatch {
	t.Helper()
	opts := DefaultOptions()
	opts.ColorCount = colors
	swatches, err := NewMMCQ().Quantize(pixels, opts)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	return swatches
}

func countVisible(pixels []byte) int {
	n := 0
	for i := 0; i+4 <= len(pixels); i += 4 {
		if pixels[i+3] > 0 {
			n++
		}
	}
	return n
}

func TestMMCQLengthBound(t *testing.T) {
	pixels := randomPixels(5000, 42)
	for _, n := range []int{1, 2, 5, 16, 64, 256} {
		got := quantize(t, pixels, n)
		if len(got) > n {
			t.Errorf("ColorCount %d: got %d swatches", n, len(got))
		}
		if len(got) == 0 {
			t.Errorf("ColorCount %d: got no swatches for non-empty input", n)
		}
	}
}

func TestMMCQPopulationConservation(t *testing.T) {
	for seed := range uint64(4) {
		pixels := randomPixels(3000, seed)
		want := countVisible(pixels)

		for _, n := range []int{1, 8, 64} {
			total := 0
			for _, sw := range quantize(t, pixels, n) {
				total += sw.Population()
			}
			if total != want {
				t.Errorf("seed %d, ColorCount %d: populations sum to %d, want %d", seed, n, total, want)
			}
		}
	}
}

func TestMMCQSortedByPopulation(t *testing.T) {
	got := quantize(t, randomPixels(4000, 3), 32)
	for i := 1; i < len(got); i++ {
		if got[i].Population() > got[i-1].Population() {
			t.Fatalf("swatch %d has population %d > previous %d", i, got[i].Population(), got[i-1].Population())
		}
	}
}

func TestMMCQUniqueColours(t *testing.T) {
	got := quantize(t, randomPixels(4000, 11), 64)
	seen := make(map[RGB]bool)
	for _, sw := range got {
		if seen[sw.RGB()] {
			t.Errorf("colour %s emitted twice", sw.Hex())
		}
		seen[sw.RGB()] = true
	}
}

func TestMMCQDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		pixels []byte
		colors int
		want   []Swatch
	}{
		{name: "nil", pixels: nil, colors: 16, want: []Swatch{}},
		{name: "fully transparent", pixels: solid(100, 255, 0, 0, 0), colors: 16, want: []Swatch{}},
		{name: "all black", pixels: solid(100, 0, 0, 0, 255), colors: 16, want: []Swatch{NewSwatch(RGB{}, 100)}},
		{
			name:   "single colour ignores count",
			pixels: solid(9, 12, 200, 99, 255),
			colors: 64,
			want:   []Swatch{NewSwatch(RGB{R: 12, G: 200, B: 99}, 9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quantize(t, tt.pixels, tt.colors)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(Swatch{})); diff != "" {
				t.Errorf("Quantize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMMCQTwoColours(t *testing.T) {
	pixels := append(solid(70, 255, 0, 0, 255), solid(30, 0, 0, 255, 255)...)

	got := quantize(t, pixels, 8)
	want := []Swatch{
		NewSwatch(RGB{R: 255}, 70),
		NewSwatch(RGB{B: 255}, 30),
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Swatch{})); diff != "" {
		t.Errorf("Quantize() mismatch (-want +got):\n%s", diff)
	}
}

func TestMMCQNonPositiveCount(t *testing.T) {
	pixels := append(solid(70, 255, 0, 0, 255), solid(30, 0, 0, 255, 255)...)
	for _, n := range []int{0, -3} {
		got := quantize(t, pixels, n)
		if len(got) != 1 {
			t.Fatalf("ColorCount %d: got %d swatches, want 1", n, len(got))
		}
		if got[0].Population() != 100 {
			t.Errorf("ColorCount %d: population %d, want 100", n, got[0].Population())
		}
		// 70 red and 30 blue average to (179, 0, 77).
		if got[0].Hex() != "#b3004d" {
			t.Errorf("ColorCount %d: colour %s, want #b3004d", n, got[0].Hex())
		}
	}
}

func TestMMCQDeterministic(t *testing.T) {
	pixels := randomPixels(3000, 99)
	a := quantize(t, pixels, 24)
	b := quantize(t, pixels, 24)
	if diff := cmp.Diff(a, b, cmp.AllowUnexported(Swatch{})); diff != "" {
		t.Errorf("Quantize() not deterministic (-first +second):\n%s", diff)
	}
}

func TestMMCQAveragesBucketMembers(t *testing.T) {
	// Both colours fall into the same 5-bit bucket.
	pixels := append(solid(1, 200, 100, 50, 255), solid(3, 204, 100, 54, 255)...)
	got := quantize(t, pixels, 4)
	if len(got) != 1 {
		t.Fatalf("got %d swatches, want 1", len(got))
	}
	if want := (RGB{R: 203, G: 100, B: 53}); got[0].RGB() != want {
		t.Errorf("average = %v, want %v", got[0].RGB(), want)
	}
}
