package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ulikunitz/xz"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 128})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPixels(t *testing.T) {
	img := checker(2, 2)
	want := []byte{
		255, 0, 0, 255, 0, 0, 255, 128,
		0, 0, 255, 128, 255, 0, 0, 255,
	}

	got, err := Pixels(img)
	if err != nil {
		t.Fatalf("Pixels() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pixels(NRGBA) mismatch (-want +got):\n%s", diff)
	}

	sub := checker(4, 4).SubImage(image.Rect(1, 1, 3, 3))
	got, err = Pixels(sub)
	if err != nil {
		t.Fatalf("Pixels(sub) error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pixels(SubImage) mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelsConvertsColourModels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 10})
	gray.SetGray(1, 0, color.Gray{Y: 200})

	got, err := Pixels(gray)
	if err != nil {
		t.Fatalf("Pixels() error = %v", err)
	}
	want := []byte{10, 10, 10, 255, 200, 200, 200, 255}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pixels(Gray) mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelsErrors(t *testing.T) {
	if _, err := Pixels(nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("Pixels(nil) error = %v, want ErrNilImage", err)
	}

	got, err := Pixels(image.NewNRGBA(image.Rect(0, 0, 0, 5)))
	if err != nil || len(got) != 0 {
		t.Errorf("Pixels(empty) = %v, %v; want empty buffer", got, err)
	}

	huge := image.NewUniform(color.White)
	if _, err := Pixels(huge); err == nil {
		t.Error("Pixels(unbounded uniform) expected size error")
	}
}

func TestNewRaw(t *testing.T) {
	pix := make([]byte, 2*3*4)
	img, err := NewRaw(pix, 2, 3)
	if err != nil {
		t.Fatalf("NewRaw() error = %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	tests := []struct {
		name string
		pix  []byte
		w, h int
	}{
		{name: "short buffer", pix: make([]byte, 10), w: 2, h: 2},
		{name: "long buffer", pix: make([]byte, 20), w: 2, h: 2},
		{name: "negative width", pix: nil, w: -1, h: 2},
		{name: "too wide", pix: nil, w: MaxSide + 1, h: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRaw(tt.pix, tt.w, tt.h); !errors.Is(err, ErrInvalidPixels) {
				t.Errorf("NewRaw() error = %v, want ErrInvalidPixels", err)
			}
		})
	}
}

func TestScaleRatio(t *testing.T) {
	tests := []struct {
		name          string
		w, h          int
		maxDim, q     int
		want          float64
	}{
		{name: "quality 5", w: 100, h: 50, q: 5, want: 0.2},
		{name: "quality 1", w: 100, h: 50, q: 1, want: 1},
		{name: "quality 0", w: 100, h: 50, q: 0, want: 1},
		{name: "max dimension caps longer side", w: 400, h: 100, maxDim: 100, q: 5, want: 0.25},
		{name: "max dimension larger than image", w: 40, h: 30, maxDim: 100, q: 5, want: 1},
		{name: "max dimension on tall image", w: 30, h: 300, maxDim: 60, want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleRatio(tt.w, tt.h, tt.maxDim, tt.q); got != tt.want {
				t.Errorf("ScaleRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScale(t *testing.T) {
	src := checker(10, 4)

	if got := Scale(src, 0, 1); got != image.Image(src) {
		t.Error("Scale() with quality 1 should return the source image")
	}

	scaled := Scale(src, 5, 1)
	if b := scaled.Bounds(); b.Dx() != 5 || b.Dy() != 2 {
		t.Errorf("Scale(maxDim 5) bounds = %v, want 5x2", b)
	}

	tiny := Scale(checker(3, 3), 0, 10)
	if b := tiny.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("Scale() bounds = %v, want 1x1 minimum", b)
	}

	// Nearest-neighbour sampling never blends the source colours.
	pix, err := Pixels(scaled)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(pix); i += 4 {
		px := [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
		if px != [4]byte{255, 0, 0, 255} && px != [4]byte{0, 0, 255, 128} {
			t.Errorf("pixel %d = %v is not a source colour", i/4, px)
		}
	}
}

func TestDecode(t *testing.T) {
	data := encodePNG(t, checker(3, 2))

	img, err := Decode(bytes.NewReader(data), "plain.png")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d, want 3", img.Bounds().Dx())
	}

	var compressed bytes.Buffer
	w, err := xz.NewWriter(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	img, err = Decode(bytes.NewReader(compressed.Bytes()), "https://example.com/wall.png.xz?size=large")
	if err != nil {
		t.Fatalf("Decode(xz) error = %v", err)
	}
	if img.Bounds().Dy() != 2 {
		t.Errorf("height = %d, want 2", img.Bounds().Dy())
	}

	if _, err := Decode(bytes.NewReader([]byte("not an image")), "bad.png"); err == nil {
		t.Error("Decode(garbage) expected error")
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, encodePNG(t, checker(4, 4)), 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := NewFileLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", img.Bounds().Dx())
	}

	for _, bad := range []string{"", filepath.Join(dir, "missing.png"), dir} {
		if _, err := NewFileLoader().Load(bad); err == nil {
			t.Errorf("Load(%q) expected error", bad)
		}
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(good, encodePNG(t, checker(2, 2)), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: good},
		{path: dir},
		{path: "https://example.com/a.jpg"},
		{path: bad, wantErr: true},
		{path: filepath.Join(dir, "missing.png"), wantErr: true},
		{path: "", wantErr: true},
	}
	for _, tt := range tests {
		if err := ValidateImagePath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestScanDirectoryForImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "c.webp.xz", "notes.txt", "d.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages() error = %v", err)
	}
	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	want := []string{"a.png", "b.JPG", "c.webp.xz", "d.gif"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ScanDirectoryForImages() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("empty directory expected error")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := encodePNG(t, checker(5, 1))
	var gotURL string
	l := &SmartLoader{
		fileLoader: NewFileLoader(),
		fetch: func(_ context.Context, url string) ([]byte, error) {
			gotURL = url
			return data, nil
		},
	}

	img, err := l.Load("https://example.com/a.png")
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if gotURL != "https://example.com/a.png" || img.Bounds().Dx() != 5 {
		t.Errorf("fetched %q, width %d", gotURL, img.Bounds().Dx())
	}

	l.fetch = func(context.Context, string) ([]byte, error) { return nil, errors.New("offline") }
	if _, err := l.Load("http://example.com/a.png"); err == nil {
		t.Error("Load(url) expected fetch error")
	}
}
