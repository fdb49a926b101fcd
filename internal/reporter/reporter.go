// Package reporter implements the single-consumer side of the pipeline. It
// drains the outcome channel, renders per-file status lines, accumulates the
// run counters, and produces the final summary used to decide the process
// exit status.
//
// Exactly one goroutine runs a Reporter; the counters it owns are never
// shared, which is what lets the rest of the pipeline run lock-free.
package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/eolfix/internal/models"
)

// Status labels rendered in the left-hand column.
const (
	labelUpdated  = "updated"
	labelToUpdate = "to update"
	labelUpToDate = "up to date"
	labelError    = "error"
)

// Sink receives a copy of everything the reporter renders. Used to mirror
// the run into a log file; may be nil.
type Sink interface {
	RecordOutcome(outcome models.Outcome)
	RecordSummary(result models.RunResult)
}

// Reporter renders outcomes and accumulates run counters. It is not safe for
// concurrent use; the orchestrator runs exactly one Reporter goroutine.
type Reporter struct {
	writer      io.Writer
	dryRun      bool
	listAll     bool
	colorOutput bool
	sink        Sink

	statusColor map[models.OutcomeKind]*color.Color
	pathColor   *color.Color
	statColor   *color.Color
}

// Options configures reporter behavior.
type Options struct {
	// DryRun switches the modified-file label from "updated" to "to update".
	DryRun bool

	// ListAll renders up-to-date files as well, not only modified and
	// errored ones.
	ListAll bool

	// NoColor forces plain output even on a terminal.
	NoColor bool

	// Sink optionally mirrors rendered outcomes and the summary.
	Sink Sink
}

// New creates a Reporter writing to the given writer. Color output is
// enabled only when the writer is a terminal and neither NoColor nor the
// NO_COLOR convention disables it.
func New(writer io.Writer, opts Options) *Reporter {
	return &Reporter{
		writer:      writer,
		dryRun:      opts.DryRun,
		listAll:     opts.ListAll,
		colorOutput: !opts.NoColor && isTerminal(writer),
		sink:        opts.Sink,
		statusColor: map[models.OutcomeKind]*color.Color{
			models.OutcomeUpdated:   color.New(color.FgGreen),
			models.OutcomeUpToDate:  color.New(color.FgWhite),
			models.OutcomeFileError: color.New(color.FgRed),
			models.OutcomeWalkError: color.New(color.FgRed, color.Bold),
		},
		pathColor: color.New(color.FgCyan),
		statColor: color.New(color.FgYellow),
	}
}

// isTerminal checks whether the writer is a TTY that supports colors.
// Respects the color library's NO_COLOR detection.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Run drains the outcome channel until it is closed, rendering and counting
// every outcome, then prints the summary block and returns the final
// counters. Errors are rendered as they arrive, not batched.
func (r *Reporter) Run(outcomes <-chan models.Outcome) models.RunResult {
	start := time.Now()
	var result models.RunResult

	for outcome := range outcomes {
		r.record(&result, outcome)
		r.render(outcome)
		if r.sink != nil {
			r.sink.RecordOutcome(outcome)
		}
	}

	result.Duration = time.Since(start)
	r.renderSummary(result)
	if r.sink != nil {
		r.sink.RecordSummary(result)
	}

	return result
}

// record applies one outcome to the run counters. Walk errors identify no
// file and therefore increment only the error counter.
func (r *Reporter) record(result *models.RunResult, outcome models.Outcome) {
	switch outcome.Kind {
	case models.OutcomeUpdated:
		result.TotalFiles++
		result.UpdatedFiles++
	case models.OutcomeUpToDate:
		result.TotalFiles++
	case models.OutcomeFileError:
		result.TotalFiles++
		result.ErrorCount++
	case models.OutcomeWalkError:
		result.ErrorCount++
	}
}

// render writes the status line for one outcome. Up-to-date files are shown
// only in list mode; everything else is always shown.
func (r *Reporter) render(outcome models.Outcome) {
	switch outcome.Kind {
	case models.OutcomeUpdated:
		label := labelUpdated
		if r.dryRun {
			label = labelToUpdate
		}
		r.writeStatusLine(label, outcome.Kind, outcome.Path, nil)
	case models.OutcomeUpToDate:
		if r.listAll {
			r.writeStatusLine(labelUpToDate, outcome.Kind, outcome.Path, nil)
		}
	case models.OutcomeFileError:
		r.writeStatusLine(labelError, outcome.Kind, outcome.Path, outcome.Err)
	case models.OutcomeWalkError:
		r.writeColored(r.statusColor[outcome.Kind], "%v", outcome.Err)
		fmt.Fprintln(r.writer)
	}
}

// writeStatusLine renders "     label: path" with an optional error detail,
// right-aligning the label so paths line up in a column.
func (r *Reporter) writeStatusLine(label string, kind models.OutcomeKind, path string, detail error) {
	r.writeColored(r.statusColor[kind], "%10s", label)
	fmt.Fprint(r.writer, ": ")
	r.writeColored(r.pathColor, "%s", path)
	if detail != nil {
		fmt.Fprint(r.writer, ": ")
		r.writeColored(r.statusColor[kind], "%v", detail)
	}
	fmt.Fprintln(r.writer)
}

// renderSummary prints the trailing counter block. The error tally appears
// only when non-zero.
func (r *Reporter) renderSummary(result models.RunResult) {
	fmt.Fprintln(r.writer)
	r.writeStat("total files", result.TotalFiles)

	updatedLabel := "updated files"
	if r.dryRun {
		updatedLabel = "files to be updated"
	}
	r.writeStat(updatedLabel, result.UpdatedFiles)

	if result.ErrorCount > 0 {
		r.writeStat("errors", result.ErrorCount)
	}
}

// writeStat renders one right-aligned summary line.
func (r *Reporter) writeStat(label string, value int) {
	r.writeColored(r.statColor, "%20s", label)
	fmt.Fprintf(r.writer, ": %d\n", value)
}

// writeColored writes through the given color when color output is enabled,
// and plainly otherwise.
func (r *Reporter) writeColored(c *color.Color, format string, args ...interface{}) {
	if r.colorOutput {
		c.Fprintf(r.writer, format, args...)
		return
	}
	fmt.Fprintf(r.writer, format, args...)
}
