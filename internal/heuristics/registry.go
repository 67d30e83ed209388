package heuristics

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Registry hands out the current table set. Swaps are atomic so classifiers
// never observe a half-loaded table.
type Registry struct {
	current atomic.Pointer[Tables]
	watcher *fsnotify.Watcher
}

// NewRegistry creates a registry holding the compiled-in defaults.
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(Defaults())
	return r
}

// Current returns the active table set.
func (r *Registry) Current() *Tables {
	return r.current.Load()
}

// LoadFile replaces the active tables with the contents of a YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tables file: %w", err)
	}

	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("failed to parse tables YAML: %w", err)
	}
	if tables.Version == 0 {
		return fmt.Errorf("tables file %s missing version", path)
	}
	if len(tables.IntentPatterns) == 0 {
		return fmt.Errorf("tables file %s has no intent patterns", path)
	}

	r.current.Store(&tables)
	log.Printf("✅ [HEURISTICS] Loaded scoring tables v%d from %s", tables.Version, path)
	return nil
}

// Watch reloads the tables whenever the file changes. A bad write keeps the
// previous tables active.
func (r *Registry) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create tables watcher: %w", err)
	}

	// Watch the directory; editors often replace the file rather than write it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch tables dir: %w", err)
	}
	r.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := r.LoadFile(path); err != nil {
					log.Printf("⚠️  [HEURISTICS] Reload failed, keeping v%d: %v",
						r.Current().Version, err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️  [HEURISTICS] Watcher error: %v", err)
			}
		}
	}()

	log.Printf("👀 [HEURISTICS] Watching %s for table updates", path)
	return nil
}

// Close stops the file watcher if one is running.
func (r *Registry) Close() {
	if r.watcher != nil {
		r.watcher.Close()
	}
}
