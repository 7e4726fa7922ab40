package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dupfinder/internal/dedup"
)

var (
	findMatchTime bool
	findJSON      bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Print duplicate groups",
	Long: `Print every group of tracked images sharing a fingerprint.

With --match-time, images must also agree on their EXIF capture time to be
considered duplicates. Images without a capture time always pass the check:
when the time cannot be known, the group is kept rather than dropped.

Example:
  dupfinder find
  dupfinder find --match-time
  dupfinder find --json`,
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findMatchTime, "match-time", false,
		"Require duplicates to share a capture time")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	groups, err := dedup.Find(store, findMatchTime)
	if err != nil {
		return err
	}

	if findJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	for i, group := range groups {
		fmt.Printf("Group #%d (%d copies)\n", i+1, group.Count)
		for j, item := range group.Items {
			marker := "✗"
			if j == 0 {
				marker = "✓" // retained by dedup
			}
			fmt.Printf("  %s %s  %s  %s  %s\n",
				marker, item.Path, item.ImageSize, formatSize(item.FileSize), item.CaptureTime)
		}
		fmt.Println()
	}

	fmt.Printf("Number of duplicate groups: %d\n", len(groups))
	if len(groups) > 0 {
		fmt.Println("Run 'dupfinder serve' to review them in the browser")
		fmt.Println("Run 'dupfinder dedup --confirm' to delete redundant copies")
	}
	return nil
}
