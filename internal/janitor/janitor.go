package janitor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/pkg/dataflow"
)

const removeWorkers = 4

// Janitor deletes files older than a maximum age from a set of folders.
type Janitor struct {
	folders  []string
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
}

type entry struct {
	path    string
	modTime time.Time
}

// New creates a janitor sweeping folders every interval.
func New(maxAge, interval time.Duration, folders ...string) *Janitor {
	return &Janitor{
		folders:  folders,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
			logger.ErrorLog(ctx, "janitor sweep failed", err)
		}
		select {
		case <-ctx.Done():
			logger.InfoLog(ctx, "janitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep removes every expired regular file and returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.maxAge)

	listings := make([]dataflow.Stream[entry], 0, len(j.folders))
	for _, folder := range j.folders {
		listings = append(listings, j.list(ctx, folder))
	}
	expired := dataflow.Filter(ctx, dataflow.FanIn(ctx, listings...), func(e entry) bool {
		return e.modTime.Before(cutoff)
	})

	var removed int64
	err := dataflow.ForEach(ctx, expired, func(e entry) error {
		if err := os.Remove(e.path); err != nil {
			return err
		}
		atomic.AddInt64(&removed, 1)
		logger.DebugLog(ctx, "removed expired file %s", e.path)
		return nil
	},
		dataflow.WithWorkers(removeWorkers),
		dataflow.WithRetry(2, func(attempt int) time.Duration { return time.Duration(attempt) * 50 * time.Millisecond }),
		dataflow.WithErrorHandler(func(err error) bool { return errors.Is(err, fs.ErrNotExist) }),
	)

	n := int(atomic.LoadInt64(&removed))
	if n > 0 {
		logger.InfoLog(ctx, "janitor removed %d expired files", n)
	}
	return n, err
}

func (j *Janitor) list(ctx context.Context, folder string) dataflow.Stream[entry] {
	return dataflow.Generate(ctx, func(emit func(entry) bool) error {
		items, err := os.ReadDir(folder)
		if err != nil {
			return err
		}
		for _, it := range items {
			if !it.Type().IsRegular() {
				continue
			}
			info, err := it.Info()
			if err != nil {
				continue
			}
			if !emit(entry{path: filepath.Join(folder, it.Name()), modTime: info.ModTime()}) {
				return ctx.Err()
			}
		}
		return nil
	}, dataflow.WithErrorHandler(func(err error) bool {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.WarnLog(ctx, "janitor cannot list %s: %v", folder, err)
		}
		return true
	}))
}
