package hash

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"dupfinder/internal/models"
)

// testImage builds an asymmetric opaque image so its four rotations are
// visually distinct.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x*7 + y*13) % 256),
				G: uint8((x * 3) % 256),
				B: uint8((y * 5) % 256),
				A: 255,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestHashImage_RotationInvariance(t *testing.T) {
	tmpDir := t.TempDir()
	base := testImage(64, 48)

	rot90 := imaging.Rotate90(base)
	rot180 := imaging.Rotate90(rot90)
	rot270 := imaging.Rotate90(rot180)

	paths := map[string]image.Image{
		"base.png":   base,
		"rot90.png":  rot90,
		"rot180.png": rot180,
		"rot270.png": rot270,
	}

	h := NewHasher()
	fingerprints := make(map[string]string)
	for name, img := range paths {
		path := filepath.Join(tmpDir, name)
		writePNG(t, path, img)

		rec, err := h.HashImage(path)
		if err != nil {
			t.Fatalf("HashImage(%s) failed: %v", name, err)
		}
		fingerprints[name] = rec.Fingerprint
	}

	want := fingerprints["base.png"]
	for name, got := range fingerprints {
		if got != want {
			t.Errorf("fingerprint of %s = %q, want %q (same as base)", name, got, want)
		}
	}
}

func TestHashImage_DistinctImagesDiffer(t *testing.T) {
	tmpDir := t.TempDir()

	a := filepath.Join(tmpDir, "a.png")
	writePNG(t, a, testImage(64, 48))

	// Solid color image, nothing like the gradient
	solid := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			solid.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	b := filepath.Join(tmpDir, "b.png")
	writePNG(t, b, solid)

	h := NewHasher()
	recA, err := h.HashImage(a)
	if err != nil {
		t.Fatalf("HashImage(a) failed: %v", err)
	}
	recB, err := h.HashImage(b)
	if err != nil {
		t.Fatalf("HashImage(b) failed: %v", err)
	}

	if recA.Fingerprint == recB.Fingerprint {
		t.Error("distinct images produced the same fingerprint")
	}
}

func TestHashImage_Metadata(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "img.png")
	writePNG(t, path, testImage(64, 48))

	h := NewHasher()
	rec, err := h.HashImage(path)
	if err != nil {
		t.Fatalf("HashImage failed: %v", err)
	}

	if rec.Path != path {
		t.Errorf("path = %q, want %q", rec.Path, path)
	}
	if rec.ImageSize != "64 x 48" {
		t.Errorf("image_size = %q, want \"64 x 48\"", rec.ImageSize)
	}
	if rec.FileSize <= 0 {
		t.Errorf("file_size = %d, want > 0", rec.FileSize)
	}
	// PNG carries no EXIF, so capture time must be the sentinel
	if rec.CaptureTime != models.TimeUnknown {
		t.Errorf("capture_time = %q, want %q", rec.CaptureTime, models.TimeUnknown)
	}
	// Four sorted phash strings concatenated
	if strings.Count(rec.Fingerprint, "p:") != 4 {
		t.Errorf("fingerprint %q does not contain 4 phash values", rec.Fingerprint)
	}
}

func TestHashImage_Unreadable(t *testing.T) {
	tmpDir := t.TempDir()

	junk := filepath.Join(tmpDir, "junk.jpg")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatalf("failed to write junk file: %v", err)
	}

	h := NewHasher()
	if _, err := h.HashImage(junk); !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("expected ErrUnreadableImage for junk file, got %v", err)
	}

	missing := filepath.Join(tmpDir, "missing.jpg")
	if _, err := h.HashImage(missing); !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("expected ErrUnreadableImage for missing file, got %v", err)
	}
}

func TestHashImageWithTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "img.png")
	writePNG(t, path, testImage(64, 48))

	h := NewHasher()
	rec, err := h.HashImageWithTimeout(path, 30*time.Second)
	if err != nil {
		t.Fatalf("HashImageWithTimeout failed: %v", err)
	}
	if rec.Fingerprint == "" {
		t.Error("fingerprint should not be empty")
	}
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"photo.JPG", true},
		{"photo.png", true},
		{"photo.gif", true},
		{"photo.webp", true},
		{"photo.bmp", true},
		{"photo.tiff", true},
		{"photo.tif", true},
		{"document.pdf", false},
		{"video.mp4", false},
		{"noextension", false},
		{"/path/to/photo.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := IsSupportedImage(tt.path)
			if got != tt.expected {
				t.Errorf("IsSupportedImage(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}
