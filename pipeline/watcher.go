package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/labelgate/errors"
	"github.com/teranos/labelgate/logger"
)

// DefaultDebounce collapses bursts of writes from editors and exporters
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-runs a pipeline whenever its input file is written
type Watcher struct {
	Pipeline *Pipeline
	Input    string
	Debounce time.Duration

	// OnRun receives every run's report and error (report may be nil)
	OnRun func(*Report, error)

	Logger *zap.SugaredLogger

	ready func() // test hook, called once the watch is registered
}

// Watch blocks until ctx is cancelled. The parent directory is watched
// rather than the file so that atomic replacements (rename over the input)
// are still seen. Runs happen serially on the calling goroutine.
func (w *Watcher) Watch(ctx context.Context) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	input, err := filepath.Abs(w.Input)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", w.Input)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(input)); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "failed to watch %s", filepath.Dir(input)),
			"the input directory must exist before watching")
	}

	debounce := w.Debounce
	if debounce < 0 {
		debounce = DefaultDebounce
	}

	log.Infow("Watching input", logger.FieldPath, input, "debounce_ms", debounce.Milliseconds())
	if w.ready != nil {
		w.ready()
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debugw("Watcher stopped", logger.FieldPath, input)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debugw("Input changed", logger.FieldPath, event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			report, err := w.Pipeline.Run(ctx, input)
			if err != nil {
				log.Warnw("Watched run failed", logger.FieldError, err)
			}
			if w.OnRun != nil {
				w.OnRun(report, err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}
