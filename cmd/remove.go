package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>...",
	Short: "Stop tracking images under the given paths",
	Long: `Remove the tracking records of every image at or under the given
paths. No files are touched on disk; this only forgets fingerprints.
Records whose files have already vanished are forgotten too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var removed int64
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		n, err := store.DeleteUnder(abs)
		if err != nil {
			return err
		}
		removed += n
	}

	fmt.Printf("Untracked %d records\n", removed)
	return nil
}
