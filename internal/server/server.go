package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dupfinder/internal/dedup"
)

//go:embed static/*
var staticFiles embed.FS

// Store is the slice of the fingerprint store the review server needs.
type Store interface {
	dedup.Store
	Exists(path string) (bool, error)
}

// Server feeds duplicate groups to the review page and executes per-item
// deletions on its behalf. Everything destructive goes through the same
// trash-then-untrack path as the dedup command.
type Server struct {
	store      Store
	executor   *dedup.Executor
	port       int
	httpServer *http.Server
}

// New creates a new Server.
func New(store Store, executor *dedup.Executor, port int) *Server {
	return &Server{
		store:    store,
		executor: executor,
		port:     port,
	}
}

// Start runs the server until SIGINT/SIGTERM.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/groups", s.handleGroups)
	mux.HandleFunc("/api/delete", s.handleDelete)
	mux.HandleFunc("/api/image", s.handleImage)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return err
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	go s.handleShutdownSignals()

	err = s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleShutdownSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.httpServer.Shutdown(ctx)
}

// handleGroups returns the duplicate groups as JSON. Pass match_time=1 to
// require members to agree on capture time.
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	matchTime := r.URL.Query().Get("match_time") == "1"

	groups, err := dedup.Find(s.store, matchTime)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

// handleDelete deletes a single reviewed file: move to trash, then untrack.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	result := map[string]string{"path": req.Path, "status": "deleted"}
	if err := s.executor.DeleteOne(req.Path); err != nil {
		if errors.Is(err, dedup.ErrNotFound) {
			result["status"] = "not_found"
		} else {
			result["status"] = "error"
			result["error"] = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleImage serves a preview. Only tracked paths are served; the store is
// the allowlist.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	tracked, err := s.store.Exists(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !tracked {
		http.Error(w, "not tracked", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}
