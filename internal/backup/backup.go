// Package backup periodically copies the live snapshot file into a backup
// directory with timestamped names, pruning old copies beyond the retention
// count. Backups only make sense for the file backend; the application skips
// the job entirely when snapshots live in Postgres or the interval is zero.
package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	backupPrefix = "flitskaart-"
	backupSuffix = ".json"
	timeLayout   = "20060102-150405"
)

// Job copies the snapshot at source into dir on a fixed interval.
type Job struct {
	scheduler *gocron.Scheduler
	source    string
	dir       string
	keep      int
	now       func() time.Time // Injectable for testing
	logger    *slog.Logger
}

// NewJob creates a backup job for the snapshot at source. keep limits how
// many copies are retained; zero keeps every copy.
func NewJob(source, dir string, keep int, logger *slog.Logger) (*Job, error) {
	if source == "" {
		return nil, errors.New("backup source cannot be empty")
	}
	if dir == "" {
		return nil, errors.New("backup directory cannot be empty")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory %s: %w", dir, err)
	}

	return &Job{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		dir:       dir,
		keep:      keep,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "backup")),
	}, nil
}

// Start schedules the job every intervalHours hours and begins running it in
// the background.
func (j *Job) Start(intervalHours int) error {
	if intervalHours <= 0 {
		return fmt.Errorf("backup interval must be positive, got %d", intervalHours)
	}

	if _, err := j.scheduler.Every(intervalHours).Hours().Do(j.runScheduled); err != nil {
		return fmt.Errorf("scheduling backup job: %w", err)
	}
	j.scheduler.StartAsync()

	j.logger.Info("backup job started",
		slog.Int("interval_hours", intervalHours),
		slog.Int("keep", j.keep),
		slog.String("dir", j.dir))
	return nil
}

// Stop terminates the scheduled job.
func (j *Job) Stop() {
	j.scheduler.Stop()
}

// runScheduled is the scheduler entry point; failures are logged, never
// raised, so one bad run does not kill the schedule.
func (j *Job) runScheduled() {
	if err := j.RunOnce(); err != nil {
		j.logger.Error("backup run failed", slog.String("error", err.Error()))
	}
}

// RunOnce copies the current snapshot into the backup directory and prunes
// copies beyond the retention count. A missing snapshot means nothing has
// been saved yet and is skipped quietly.
func (j *Job) RunOnce() error {
	data, err := os.ReadFile(j.source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			j.logger.Info("no snapshot to back up yet", slog.String("source", j.source))
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	name := backupPrefix + j.now().UTC().Format(timeLayout) + backupSuffix
	target := filepath.Join(j.dir, name)

	tmp, err := os.CreateTemp(j.dir, ".backup-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing backup: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("placing backup: %w", err)
	}

	j.logger.Info("snapshot backed up",
		slog.String("target", target),
		slog.Int("bytes", len(data)))

	return j.prune()
}

// prune removes the oldest backups beyond the retention count. The timestamp
// layout sorts lexicographically, so name order is age order.
func (j *Job) prune() error {
	if j.keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return fmt.Errorf("listing backup directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() ||
			!strings.HasPrefix(name, backupPrefix) ||
			!strings.HasSuffix(name, backupSuffix) {
			continue
		}
		backups = append(backups, name)
	}
	if len(backups) <= j.keep {
		return nil
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-j.keep] {
		if err := os.Remove(filepath.Join(j.dir, name)); err != nil {
			return fmt.Errorf("pruning backup %s: %w", name, err)
		}
		j.logger.Debug("pruned old backup", slog.String("name", name))
	}
	return nil
}
