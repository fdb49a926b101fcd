// Package logger writes plain-text per-run log files mirroring the
// reporter's output, for auditing what a run touched after the terminal
// scrollback is gone.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/eolfix/internal/models"
)

// RunLog logs one run's outcomes to a timestamped file in the log directory
// and maintains a latest.log symlink pointing at the most recent run.
// It implements the reporter's Sink interface. Thread-safe.
type RunLog struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	runID   string
	dryRun  bool
	started time.Time
}

// NewRunLog creates the log directory if needed, opens a timestamped
// run-YYYYMMDD-HHMMSS.log file, updates the latest.log symlink, and writes
// a header line carrying a unique run identifier.
func NewRunLog(logDir string, dryRun bool) (*RunLog, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	started := time.Now()
	runPath := filepath.Join(logDir, fmt.Sprintf("run-%s.log", started.Format("20060102-150405")))

	file, err := os.OpenFile(runPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Repoint latest.log at the new run. Symlink failures (e.g. filesystems
	// without symlink support) do not prevent logging.
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		_ = os.Remove(symlinkPath)
	}
	_ = os.Symlink(filepath.Base(runPath), symlinkPath)

	log := &RunLog{
		file:    file,
		path:    runPath,
		runID:   uuid.New().String(),
		dryRun:  dryRun,
		started: started,
	}

	fmt.Fprintf(file, "run %s started %s dry_run=%v\n", log.runID, started.Format(time.RFC3339), dryRun)
	return log, nil
}

// Path returns the run log file path.
func (l *RunLog) Path() string {
	return l.path
}

// RunID returns the unique identifier written to the log header.
func (l *RunLog) RunID() string {
	return l.runID
}

// RecordOutcome appends one outcome line to the run log.
func (l *RunLog) RecordOutcome(outcome models.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05")
	switch outcome.Kind {
	case models.OutcomeFileError:
		fmt.Fprintf(l.file, "[%s] %s: %s: %v\n", timestamp, outcome.Kind, outcome.Path, outcome.Err)
	case models.OutcomeWalkError:
		fmt.Fprintf(l.file, "[%s] %s: %v\n", timestamp, outcome.Kind, outcome.Err)
	default:
		fmt.Fprintf(l.file, "[%s] %s: %s\n", timestamp, outcome.Kind, outcome.Path)
	}
}

// RecordSummary appends the final counters and closes the log file.
func (l *RunLog) RecordSummary(result models.RunResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}

	fmt.Fprintf(l.file, "total files: %d\n", result.TotalFiles)
	fmt.Fprintf(l.file, "updated files: %d\n", result.UpdatedFiles)
	fmt.Fprintf(l.file, "errors: %d\n", result.ErrorCount)
	fmt.Fprintf(l.file, "run %s finished in %s\n", l.runID, result.Duration.Round(time.Millisecond))

	_ = l.file.Close()
	l.file = nil
}

// Close releases the log file if RecordSummary was never reached.
func (l *RunLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
