package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dupfinder/internal/dedup"
	"dupfinder/internal/fileutil"
)

var (
	dedupConfirm   bool
	dedupMatchTime bool
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Delete redundant copies from every duplicate group",
	Long: `For each duplicate group, keep the earliest-added image and delete
the rest. Deleted files are moved to the trash directory before their
tracking record is removed, so nothing is lost irreversibly.

This command refuses to run without --confirm.

Example:
  dupfinder dedup --confirm
  dupfinder dedup --confirm --match-time --trash ./Trash`,
	RunE: runDedup,
}

func init() {
	dedupCmd.Flags().BoolVar(&dedupConfirm, "confirm",
		false, "Confirm you realize this deletes duplicates automatically")
	dedupCmd.Flags().BoolVar(&dedupMatchTime, "match-time", false,
		"Require duplicates to share a capture time")
	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	if !dedupConfirm {
		fmt.Println("must --confirm you will dedup files")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	executor := dedup.NewExecutor(store, fileutil.NewTrash(cfg.TrashDir))
	result, err := executor.Run(dedupMatchTime)
	if err != nil {
		return err
	}

	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", failure.Path, failure.Err)
	}
	fmt.Printf("deleted %d/%d files\n", result.Deleted, result.Total)
	return nil
}
