package lockstep

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileSource tails a YAML trace file and emits its dispatches. The current
// file contents are emitted immediately; entries appended afterwards are
// emitted as the file is written. Entries stamped at or behind the last
// emission are skipped, so rewriting the file with a grown trace only emits
// the new tail.
type FileSource[T any] struct {
	path string
}

// NewFileSource creates a FileSource for the given trace file path.
func NewFileSource[T any](path string) *FileSource[T] {
	return &FileSource[T]{path: path}
}

// Dispatches begins watching the trace file and returns a channel emitting
// its dispatches in stamp order.
func (s *FileSource[T]) Dispatches(ctx context.Context) (<-chan Dispatch[T], error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch trace file %s: %w", s.path, err)
	}

	out := make(chan Dispatch[T])

	go func() {
		defer close(out)
		defer watcher.Close()

		last := MinStamp

		// Emit initial contents
		if !s.emit(ctx, out, &last) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// Only emit on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				if !s.emit(ctx, out, &last) {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}

// emit reads the trace file and forwards entries newer than *last.
// It reports false when the context is canceled.
func (s *FileSource[T]) emit(ctx context.Context, out chan<- Dispatch[T], last *Stamp) bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return true
	}
	tr, err := DecodeTrace[T](data)
	if err != nil {
		// Partial writes decode as malformed YAML; wait for the next event.
		return true
	}
	for _, d := range tr.Dispatches() {
		if d.Stamp <= *last && *last != MinStamp {
			continue
		}
		select {
		case out <- d:
			*last = d.Stamp
		case <-ctx.Done():
			return false
		}
	}
	return true
}
