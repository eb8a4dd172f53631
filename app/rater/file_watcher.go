package rater

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-pkgz/repeater"
	"github.com/hashicorp/go-multierror"
)

// retrainAttempts and retrainDelay set the retry policy for a reload
// triggered by the file watcher.
const (
	retrainAttempts = 3
	retrainDelay    = time.Second
)

// watch watches for changes in samples files and reloads them.
// delay is a time to wait after the last change before reloading to avoid
// multiple reloads. Directories are watched instead of the files themselves,
// the optional dynamic file may not exist yet and editors replace files on
// save; events for unrelated files in those directories are dropped.
func (s *Rater) watch(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]struct{}{}
	for _, file := range []string{s.params.SamplesFile, s.params.DynamicFile} {
		if file != "" {
			watched[filepath.Clean(file)] = struct{}{}
		}
	}

	done := make(chan bool)
	reloadTimer := time.NewTimer(delay)
	reloadPending := false

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[INFO] stopping watcher for samples: %v", ctx.Err())
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, ok := watched[filepath.Clean(event.Name)]; !ok {
					continue
				}
				log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
				if !reloadPending {
					reloadPending = true
					reloadTimer.Reset(delay)
				}
			case <-reloadTimer.C:
				if reloadPending {
					reloadPending = false
					rep := repeater.NewFixed(retrainAttempts, retrainDelay)
					if err := rep.Do(ctx, s.ReloadSamples); err != nil {
						log.Printf("[WARN] failed to reload samples: %v", err)
					}
				}
			case e, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] watcher error: %v", e)
			}
		}
	}()

	errs := new(multierror.Error)
	addToWatcher := func(dir string) error {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("failed to stat dir %q: %w", dir, err)
		}
		log.Printf("[DEBUG] add dir %q to watcher", dir)
		return watcher.Add(dir)
	}
	dirs := map[string]struct{}{}
	for file := range watched {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		errs = multierror.Append(errs, addToWatcher(dir))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to add some dirs to watcher: %w", err)
	}
	<-done
	return nil
}
