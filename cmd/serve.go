package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"dupfinder/internal/dedup"
	"dupfinder/internal/fileutil"
	"dupfinder/internal/server"
)

var (
	servePort      int
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Review duplicates in the browser",
	Long: `Start a local web server showing every duplicate group with image
previews. Individual copies can be deleted from the page; deletions go
through the same trash-then-untrack path as the dedup command.

Example:
  dupfinder serve              # Start on default port 8080
  dupfinder serve -p 3000      # Use custom port`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "Don't open browser automatically")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	executor := dedup.NewExecutor(store, fileutil.NewTrash(cfg.TrashDir))
	srv := server.New(store, executor, servePort)

	url := fmt.Sprintf("http://localhost:%d", servePort)
	fmt.Printf("Starting server at %s\n", url)
	fmt.Println("Press Ctrl+C to stop")

	if !serveNoBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openBrowser(url)
		}()
	}

	return srv.Start()
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Run()
}
