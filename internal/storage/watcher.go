package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SlotWatcher monitors the backing file of a FileSlot for modifications.
// The store assumes exclusive access to its slot; the watcher exists so that
// an external writer (a second instance, a sync tool, a stray editor) is at
// least diagnosed instead of silently clobbering state.
type SlotWatcher struct {
	path         string
	onChange     func(op fsnotify.Op)
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	changeChan   chan fsnotify.Op
	debounceTime time.Duration
	stopped      bool
}

// NewSlotWatcher creates a watcher for the given slot file. onChange is
// invoked (debounced) for every write, create, remove or rename of the file.
func NewSlotWatcher(path string, onChange func(op fsnotify.Op)) (*SlotWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve slot path: %w", err)
	}

	return &SlotWatcher{
		path:         absPath,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan fsnotify.Op, 1),
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// Start begins monitoring. Watching the parent directory is more reliable
// than watching the file itself across atomic renames.
func (sw *SlotWatcher) Start(ctx context.Context) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	slotDir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(slotDir); err != nil {
		return fmt.Errorf("failed to watch slot directory %s: %w", slotDir, err)
	}

	slog.Debug("starting slot watcher", "slot", sw.path)

	go sw.watchLoop(ctx)
	go sw.notifyLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (sw *SlotWatcher) Stop() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.stopped {
		return nil
	}
	sw.stopped = true

	close(sw.stopChan)
	if err := sw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

func (sw *SlotWatcher) watchLoop(ctx context.Context) {
	slotFile := filepath.Base(sw.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.stopChan:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != slotFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				select {
				case sw.changeChan <- event.Op:
				default:
					// Change already pending
				}
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("slot watcher error", "error", err)
		}
	}
}

func (sw *SlotWatcher) notifyLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-sw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case op := <-sw.changeChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(sw.debounceTime, func() {
				sw.onChange(op)
			})
		}
	}
}
