package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dupfinder/internal/config"
	"dupfinder/internal/storage"
)

var (
	cfg *config.Config

	dbFlag      string
	trashFlag   string
	workersFlag int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "dupfinder",
	Short: "Find and remove duplicate images",
	Long: `dupfinder tracks a fingerprint for every image it has seen and finds
exact duplicates, including copies that were rotated by 90, 180 or 270
degrees. Deleted duplicates are moved to a trash directory first, so a
mistake is always recoverable.

Example usage:
  dupfinder add ~/Pictures            # Fingerprint and track a folder
  dupfinder find                      # Print duplicate groups
  dupfinder serve                     # Review duplicates in the browser
  dupfinder dedup --confirm           # Delete redundant copies`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			c.DBPath = dbFlag
		}
		if cmd.Flags().Changed("trash") {
			c.TrashDir = trashFlag
		}
		if cmd.Flags().Changed("workers") {
			c.Workers = workersFlag
		}
		cfg = c

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"Path to SQLite database (default ~/.dupfinder/images.db, env DUPFINDER_DB)")
	rootCmd.PersistentFlags().StringVar(&trashFlag, "trash", "",
		"Directory deleted files are moved to (default ./Trash, env DUPFINDER_TRASH)")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0,
		"Number of parallel hashing workers (default 8, env DUPFINDER_WORKERS)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// openStore opens the configured database. A store that cannot be reached is
// fatal for every command.
func openStore() (*storage.Storage, error) {
	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
