package dedup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dupfinder/internal/fileutil"
)

// ErrNotFound indicates a deletion candidate no longer exists on disk. Its
// store record is left untouched so the absence stays visible.
var ErrNotFound = errors.New("file not found")

// Failure records a per-item deletion error.
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a dedup run as "deleted N of M candidates".
type Result struct {
	Deleted  int
	Total    int
	Failures []Failure
}

// Executor removes redundant copies from duplicate groups. Each group keeps
// its first item (earliest added, per the store's aggregation order); the
// rest are moved to the trash and untracked.
type Executor struct {
	store Store
	trash *fileutil.Trash
}

// NewExecutor creates a new Executor.
func NewExecutor(store Store, trash *fileutil.Trash) *Executor {
	return &Executor{store: store, trash: trash}
}

// Run finds duplicate groups and deletes every non-retained member. Per-item
// failures are logged and collected; they never abort the batch. Each
// candidate is attempted exactly once.
func (e *Executor) Run(matchTime bool) (*Result, error) {
	groups, err := Find(e.store, matchTime)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, group := range groups {
		for _, item := range group.Items[1:] {
			res.Total++
			if err := e.DeleteOne(item.Path); err != nil {
				slog.Warn("failed to delete duplicate", "path", item.Path, "error", err)
				res.Failures = append(res.Failures, Failure{Path: item.Path, Err: err})
				continue
			}
			res.Deleted++
		}
	}

	return res, nil
}

// DeleteOne moves the file into the trash and, only after the move succeeds,
// removes its store record. A file that is already gone reports ErrNotFound
// and keeps its record.
func (e *Executor) DeleteOne(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return err
	}

	if _, err := e.trash.Put(abs); err != nil {
		return err
	}

	return e.store.Delete(path)
}
