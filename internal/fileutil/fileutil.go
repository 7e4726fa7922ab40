package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Trash is a holding directory files are moved into before their tracking
// record is removed. It is created lazily on first use.
type Trash struct {
	dir string
}

// NewTrash creates a Trash rooted at dir.
func NewTrash(dir string) *Trash {
	return &Trash{dir: dir}
}

// Dir returns the trash directory path.
func (t *Trash) Dir() string {
	return t.dir
}

// Put moves src into the trash directory and returns the destination path.
// If a file with the same basename is already in the trash, a counter suffix
// is appended (e.g. photo_1.jpg) so nothing in the trash is ever overwritten.
func (t *Trash) Put(src string) (string, error) {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return "", err
	}

	destName := findUniqueName(filepath.Base(src), func(name string) bool {
		_, err := os.Stat(filepath.Join(t.dir, name))
		return os.IsNotExist(err)
	})

	dest := filepath.Join(t.dir, destName)
	if err := moveFileAcrossFS(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// findUniqueName finds a unique filename by appending a counter if needed.
// isAvailable should return true if the name can be used.
func findUniqueName(filename string, isAvailable func(string) bool) string {
	if isAvailable(filename) {
		return filename
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", name, counter, ext)
		if isAvailable(candidate) {
			return candidate
		}
	}
}

// moveFileAcrossFS moves a file, falling back to copy+delete for
// cross-filesystem moves.
func moveFileAcrossFS(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyFile(src, dest); err != nil {
			return err
		}
		return os.Remove(src)
	}

	return err
}

// copyFile copies a file from src to dest.
func copyFile(src, dest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		os.Remove(dest) // Clean up on failure
		return err
	}

	return nil
}
