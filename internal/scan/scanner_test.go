package scan

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, seed int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x*seed + y) % 256),
				G: uint8((y * seed) % 256),
				B: uint8((x + y*seed) % 256),
				A: 255,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestFindImageFiles(t *testing.T) {
	tmpDir := t.TempDir()

	sub := filepath.Join(tmpDir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	writeTestPNG(t, filepath.Join(tmpDir, "a.png"), 3)
	writeTestPNG(t, filepath.Join(sub, "b.png"), 5)
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write text file: %v", err)
	}

	paths, err := FindImageFiles(tmpDir)
	if err != nil {
		t.Fatalf("FindImageFiles failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("expected 2 image files, got %d: %v", len(paths), paths)
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			t.Errorf("expected absolute path, got %q", p)
		}
	}
}

func TestHashFiles_StreamsAllValid(t *testing.T) {
	tmpDir := t.TempDir()

	var files []string
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		path := filepath.Join(tmpDir, name)
		writeTestPNG(t, path, i+2)
		files = append(files, path)
	}

	s := NewScanner(WithWorkers(2))
	var records int
	for rec := range s.HashFiles(Feed(files)) {
		if rec.Fingerprint == "" {
			t.Error("record with empty fingerprint")
		}
		records++
	}

	if records != 3 {
		t.Errorf("expected 3 records, got %d", records)
	}
}

func TestHashFiles_SkipsUnreadable(t *testing.T) {
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good.png")
	writeTestPNG(t, good, 7)

	junk := filepath.Join(tmpDir, "junk.jpg")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatalf("failed to write junk file: %v", err)
	}

	s := NewScanner(WithWorkers(2))
	var got []string
	for rec := range s.HashFiles(Feed([]string{good, junk})) {
		got = append(got, rec.Path)
	}

	if len(got) != 1 || got[0] != good {
		t.Errorf("expected only %q to survive, got %v", good, got)
	}
}

func TestHashFiles_EmptyInput(t *testing.T) {
	s := NewScanner()
	count := 0
	for range s.HashFiles(Feed(nil)) {
		count++
	}
	if count != 0 {
		t.Errorf("expected no records for empty input, got %d", count)
	}
}
