package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dupfinder/internal/scan"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Fingerprint and track images under the given paths",
	Long: `Walk each path recursively, fingerprint every image that is not yet
tracked, and store the results.

Files that are already tracked are skipped without any hashing work, so
re-running add on the same folder is cheap. Unreadable images are skipped
and never abort the batch.

Example:
  dupfinder add ~/Pictures
  dupfinder add /mnt/backup/photos ~/Downloads --workers 16`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	scanner := scan.NewScanner(scan.WithWorkers(cfg.Workers))

	var added, skipped, unreadable int
	for _, root := range args {
		files, err := scan.FindImageFiles(root)
		if err != nil {
			return err
		}

		// Known paths are never rehashed; the store is the hash cache.
		var fresh []string
		for _, f := range files {
			tracked, err := store.Exists(f)
			if err != nil {
				return err
			}
			if tracked {
				skipped++
				continue
			}
			fresh = append(fresh, f)
		}

		fmt.Printf("Hashing %s (%d new images)\n", root, len(fresh))
		if len(fresh) == 0 {
			continue
		}

		bar := progressbar.Default(int64(len(fresh)), "hashing")
		hashed := 0
		for rec := range scanner.HashFiles(scan.Feed(fresh)) {
			if _, err := store.Insert(rec); err != nil {
				return err
			}
			added++
			hashed++
			bar.Add(1)
		}
		bar.Finish()
		unreadable += len(fresh) - hashed
	}

	fmt.Printf("Added %d images (%d already tracked, %d unreadable)\n",
		added, skipped, unreadable)
	return nil
}
