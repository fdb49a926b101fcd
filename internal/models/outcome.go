package models

import "time"

// OutcomeKind identifies the result category of one unit of pipeline work.
// The set is closed: the reporter handles every kind exhaustively.
type OutcomeKind int

const (
	// OutcomeUpdated indicates the file lacked a trailing terminator and one
	// was appended (or, in dry-run mode, would be appended).
	OutcomeUpdated OutcomeKind = iota

	// OutcomeUpToDate indicates the file already ends with a terminator, or
	// is empty. Empty files are never modified.
	OutcomeUpToDate

	// OutcomeFileError indicates inspection or mutation failed for a
	// specific, identifiable file.
	OutcomeFileError

	// OutcomeWalkError indicates the traversal itself failed to produce an
	// entry (for example an unreadable directory). No file is associated.
	OutcomeWalkError
)

// String returns the human-readable name of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUpdated:
		return "updated"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeFileError:
		return "file error"
	case OutcomeWalkError:
		return "walk error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of inspecting one file or one traversal step.
// Outcomes are immutable once created; they move from a worker goroutine
// through the result channel to the reporter, which renders and counts them.
// Path is empty for OutcomeWalkError. Err is non-nil only for the two error
// kinds.
type Outcome struct {
	Kind OutcomeKind
	Path string
	Err  error
}

// RunResult aggregates the counters accumulated by the reporter over one run.
// TotalFiles counts every file that produced an outcome (updated, up to date,
// or file error); walk errors have no associated file and are excluded.
type RunResult struct {
	TotalFiles   int
	UpdatedFiles int
	ErrorCount   int
	Duration     time.Duration
}

// HasErrors reports whether any file-level or traversal-level error occurred.
// The process exit status is non-zero exactly when this returns true.
func (r RunResult) HasErrors() bool {
	return r.ErrorCount > 0
}
