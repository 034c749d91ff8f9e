// Package watch provides a file system watcher for continuous pipeline
// validation. It monitors pipeline files for changes and revalidates them
// through the debounced live controller.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/live"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// Config holds the watcher configuration.
type Config struct {
	Paths     []string      `json:"paths"`
	Recursive bool          `json:"recursive"`
	Debounce  time.Duration `json:"-"`
	Strict    bool          `json:"strict"`
}

// Event records one revalidation triggered by a file change.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"` // "create", "write"
	Status    string    `json:"status"`    // "valid", "invalid", "error"
	Errors    int       `json:"errors,omitempty"`
	Warnings  int       `json:"warnings,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Status represents the current watcher status.
type Status struct {
	Running    bool     `json:"running"`
	Paths      []string `json:"paths"`
	EventCount int      `json:"eventCount"`
}

// pipelineExtensions are the file types the watcher revalidates.
var pipelineExtensions = map[string]bool{
	".yaml": true, ".yml": true, ".json": true,
}

// ResultHandler observes every committed validation result.
type ResultHandler func(path string, result *validation.Result)

// Watcher monitors pipeline files and revalidates them on change.
type Watcher struct {
	Config  Config
	Logger  *log.Logger
	Handler ResultHandler

	mu         sync.Mutex
	events     []Event
	watcher    *fsnotify.Watcher
	controller *live.Controller
	current    string // path whose tree is loaded in the controller
}

// New creates a new Watcher with the given configuration.
func New(config Config, schemas *validation.SchemaRegistry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = live.DefaultDelay
	}

	w := &Watcher{
		Config:  config,
		Logger:  log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher: fsw,
	}
	w.controller = live.NewController(
		live.WithDelay(config.Debounce),
		live.WithSchemas(schemas),
		live.WithResultHandler(w.onResult),
	)
	if config.Strict {
		w.controller.SetStrictMode(true)
	}

	return w, nil
}

// Start begins watching the configured paths. It blocks until the context
// is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for _, path := range w.Config.Paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("could not resolve %s: %w", path, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("could not watch %s: %w", abs, err)
		}

		switch {
		case info.IsDir() && w.Config.Recursive:
			if err := w.addRecursive(abs); err != nil {
				return err
			}
		case info.IsDir():
			if err := w.watcher.Add(abs); err != nil {
				return fmt.Errorf("could not watch %s: %w", abs, err)
			}
		default:
			// Watch the parent so editors that replace the file are seen.
			if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("could not watch %s: %w", abs, err)
			}
			w.revalidate(abs, "create")
		}
	}

	w.Logger.Printf("Watching %d path(s)", len(w.Config.Paths))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			w.controller.Close()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if !pipelineExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	// Skip editor temp files
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}

	operation := "write"
	if event.Has(fsnotify.Create) {
		operation = "create"
	}
	w.revalidate(path, operation)
}

// revalidate parses the changed file and hands its tree to the controller.
// Parse failures are recorded as error events; the debounce and the
// discarding of superseded runs belong to the controller.
func (w *Watcher) revalidate(path, operation string) {
	p, err := pipeline.Load(path)
	if err != nil {
		w.Logger.Printf("Error reading %s: %v", path, err)
		w.record(Event{
			Time:      time.Now(),
			Path:      path,
			Operation: operation,
			Status:    "error",
			Error:     err.Error(),
		})
		return
	}

	w.mu.Lock()
	w.current = path
	w.mu.Unlock()
	w.controller.SetSteps(p.Steps)
}

func (w *Watcher) onResult(result *validation.Result) {
	w.mu.Lock()
	path := w.current
	w.mu.Unlock()

	status := "valid"
	if !result.IsValid {
		status = "invalid"
	}
	w.Logger.Printf("%s: %s (%d errors, %d warnings)",
		path, status, result.Summary.ErrorCount, result.Summary.WarningCount)

	w.record(Event{
		Time:     time.Now(),
		Path:     path,
		Status:   status,
		Errors:   result.Summary.ErrorCount,
		Warnings: result.Summary.WarningCount,
	})

	if w.Handler != nil {
		w.Handler(path, result)
	}
}

func (w *Watcher) record(evt Event) {
	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{
		Running:    true,
		Paths:      w.Config.Paths,
		EventCount: len(w.events),
	}
}

// GetEvents returns all recorded events.
func (w *Watcher) GetEvents() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}

// LastResult returns the most recent validation result and whether a
// revalidation is still pending.
func (w *Watcher) LastResult() (*validation.Result, bool) {
	return w.controller.Result()
}
