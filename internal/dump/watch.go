package dump

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wikieden/Mirror/pkg/log"
)

// Watch decodes capture files in dir as they appear, until ctx is canceled.
// Writes are debounced per file so a capture still being flushed is decoded
// once, after it settles. Decode failures are logged and do not stop the
// watch; only watcher errors and cancellation end it.
func (d *Dumper) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	d.log.Info("watching capture directory", log.String("dir", dir))

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, CaptureExt) {
				continue
			}
			path := event.Name

			mu.Lock()
			if t, exists := timers[path]; exists {
				t.Reset(debounce)
				mu.Unlock()
				continue
			}
			timers[path] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()

				if ctx.Err() != nil {
					return
				}
				if _, err := d.File(path); err != nil {
					d.log.Warn("capture decode failed",
						log.String("file", path),
						log.Err(err))
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}
