package hash

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dupfinder/internal/models"
)

// ErrUnreadableImage indicates a file could not be opened or decoded as an
// image. Batch callers skip the file and continue.
var ErrUnreadableImage = errors.New("unreadable image")

// Hasher computes rotation-invariant fingerprints for images
type Hasher struct{}

// NewHasher creates a new Hasher
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashImage fingerprints an image and extracts its metadata.
//
// The fingerprint is the lexically sorted concatenation of the perceptual
// hashes of the image at 0, 90, 180 and 270 degrees. Two images that are
// quarter-turn rotations of each other produce the same four hashes in a
// shifted order, so sorting makes the fingerprint identical for both.
func (h *Hasher) HashImage(path string) (*models.ImageRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	fingerprint, err := rotationFingerprint(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	bounds := img.Bounds()

	return &models.ImageRecord{
		Path:        path,
		Fingerprint: fingerprint,
		FileSize:    fileSize(path),
		ImageSize:   fmt.Sprintf("%d x %d", bounds.Dx(), bounds.Dy()),
		CaptureTime: captureTime(path),
	}, nil
}

// rotationFingerprint hashes the image at the four canonical rotations and
// joins the sorted hash strings.
func rotationFingerprint(img image.Image) (string, error) {
	// Normalize to NRGBA so all four hashes see the same pixel
	// representation regardless of the decoded color model.
	frame := imaging.Clone(img)

	hashes := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		if i > 0 {
			frame = imaging.Rotate90(frame)
		}
		ph, err := goimagehash.PerceptionHash(frame)
		if err != nil {
			return "", err
		}
		hashes = append(hashes, ph.ToString())
	}

	sort.Strings(hashes)
	return strings.Join(hashes, ""), nil
}

// fileSize returns the byte size of the file, or 0 if it cannot be stat'ed.
// Metadata is best-effort and never fails the record.
func fileSize(path string) int64 {
	stat, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return stat.Size()
}

// captureTime returns the EXIF DateTimeOriginal value as stored in the file,
// or models.TimeUnknown when the file has no usable EXIF timestamp.
func captureTime(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return models.TimeUnknown
	}
	defer file.Close()

	meta, err := exif.Decode(file)
	if err != nil {
		return models.TimeUnknown
	}

	tag, err := meta.Get(exif.DateTimeOriginal)
	if err != nil {
		return models.TimeUnknown
	}

	value, err := tag.StringVal()
	if err != nil || value == "" {
		return models.TimeUnknown
	}
	return value
}

// IsSupportedImage checks if a file is a supported image format
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif":
		return true
	default:
		return false
	}
}

// HashImageWithTimeout hashes an image with a stall guard. A file that hangs
// the decoder gives up its worker slot after the timeout.
func (h *Hasher) HashImageWithTimeout(path string, timeout time.Duration) (*models.ImageRecord, error) {
	done := make(chan struct{})
	var rec *models.ImageRecord
	var err error

	go func() {
		rec, err = h.HashImage(path)
		close(done)
	}()

	select {
	case <-done:
		return rec, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout hashing image: %s", path)
	}
}
