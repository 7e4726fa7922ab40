package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"dupfinder/internal/hash"
	"dupfinder/internal/models"
)

// DefaultWorkers is the hashing pool size used when none is configured.
const DefaultWorkers = 8

// Scanner finds image files and fingerprints them with a bounded worker pool
type Scanner struct {
	hasher  *hash.Hasher
	workers int
	timeout time.Duration
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers sets the number of parallel hashing workers
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeout sets the stall guard for hashing each image
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewScanner creates a new Scanner
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		hasher:  hash.NewHasher(),
		workers: DefaultWorkers,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindImageFiles walks root recursively and returns the absolute paths of all
// supported image files. Unreadable directory entries are skipped.
func FindImageFiles(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	var paths []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		if hash.IsSupportedImage(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}

	return paths, nil
}

// Feed turns a path slice into a channel suitable for HashFiles.
func Feed(paths []string) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		for _, p := range paths {
			ch <- p
		}
	}()
	return ch
}

// HashFiles fingerprints every path arriving on the input channel using a
// fixed-size worker pool and streams the successful records back, unordered.
// Unreadable images are logged and dropped. The returned channel is closed
// once all workers finish; the caller must drain it, or the workers block
// on send and leak.
func (s *Scanner) HashFiles(paths <-chan string) <-chan *models.ImageRecord {
	out := make(chan *models.ImageRecord)

	var group errgroup.Group
	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			for path := range paths {
				rec, err := s.hasher.HashImageWithTimeout(path, s.timeout)
				if err != nil {
					slog.Debug("skipping image", "path", path, "error", err)
					continue
				}
				out <- rec
			}
			return nil
		})
	}

	go func() {
		group.Wait()
		close(out)
	}()

	return out
}
