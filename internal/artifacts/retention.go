package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"webtranslator/internal/logging"
)

const sweepLockName = ".sweep.lock"

// SweepResult contains the outcome of a retention sweep.
type SweepResult struct {
	Removed []Artifact
	Errors  []CleanupError
	// Skipped is set when another process holds the sweep lock.
	Skipped bool
}

// ReclaimedBytes sums the sizes of removed artifacts.
func (r SweepResult) ReclaimedBytes() int64 {
	var total int64
	for _, a := range r.Removed {
		total += a.Size
	}
	return total
}

// CleanupError pairs a file path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Sweep removes artifacts and abandoned temp files whose modification time is
// older than maxAge. A non-positive maxAge disables sweeping. Files younger
// than maxAge are never touched.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) SweepResult {
	result := SweepResult{}
	if maxAge <= 0 {
		return result
	}

	lock := flock.New(filepath.Join(s.dir, sweepLockName))
	locked, err := lock.TryLock()
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: lock.Path(), Error: fmt.Errorf("acquire sweep lock: %w", err)})
		return result
	}
	if !locked {
		result.Skipped = true
		s.logger.Debug("sweep skipped; lock held elsewhere", logging.String("lock", lock.Path()))
		return result
	}
	defer func() {
		_ = lock.Unlock()
	}()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: s.dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		tempFile := strings.HasSuffix(name, ".part") && strings.HasPrefix(name, ".")
		if !ValidName(name) && !tempFile {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				result.Errors = append(result.Errors, CleanupError{Path: filepath.Join(s.dir, name), Error: err})
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		artifact := fromInfo(s.dir, name, info)
		if err := os.Remove(artifact.Path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			result.Errors = append(result.Errors, CleanupError{Path: artifact.Path, Error: err})
			logging.WarnWithContext(s.logger, "failed to remove expired artifact", "artifact_cleanup_failed",
				logging.String("path", artifact.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check artifact_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		if tempFile {
			continue
		}
		result.Removed = append(result.Removed, artifact)
		s.logger.Debug("removed expired artifact",
			logging.ArtifactID(artifact.ID),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "artifact_cleanup"),
		)
	}
	return result
}

// Sweeper periodically applies retention to a Store.
type Sweeper struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper constructs a Sweeper. Run is a no-op when maxAge or interval is
// not positive.
func NewSweeper(store *Store, maxAge, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "sweeper"),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.store == nil || s.maxAge <= 0 || s.interval <= 0 {
		return
	}
	s.logger.Info("artifact sweeper started",
		logging.Duration("max_age", s.maxAge),
		logging.Duration("interval", s.interval),
	)
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("artifact sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	result := s.store.Sweep(ctx, s.maxAge)
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		return
	}
	s.logger.Info("artifact sweep complete",
		logging.Int("removed", len(result.Removed)),
		logging.Int("errors", len(result.Errors)),
		logging.Int64("reclaimed_bytes", result.ReclaimedBytes()),
		logging.String(logging.FieldEventType, "artifact_sweep"),
	)
}
