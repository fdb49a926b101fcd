// Package enforce implements the per-file trailing-newline check and repair.
//
// The inspector looks at exactly one byte: the last byte of the file. Files
// whose last byte is a line feed are left alone (a CRLF ending also ends in
// a line feed, so the check is terminator-agnostic). Files that need repair
// receive a pure append of one terminator sequence; no existing content is
// ever read beyond the final byte or rewritten. Empty files are never
// modified.
package enforce

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/eolfix/internal/filelock"
)

// Status is the result of inspecting a single file.
type Status int

const (
	// StatusUpToDate means the file already ends with a terminator or is empty.
	StatusUpToDate Status = iota

	// StatusUpdated means a terminator was appended to the file.
	StatusUpdated

	// StatusWouldUpdate means the file needs a terminator but dry-run mode
	// prevented the append.
	StatusWouldUpdate
)

// Inspector checks and optionally repairs newline termination on individual
// files. It is safe for concurrent use by multiple worker goroutines: it has
// no mutable state, and each Inspect call touches only its own file handle.
type Inspector struct {
	dryRun     bool
	terminator []byte
}

// NewInspector builds an inspector. In dry-run mode files are opened
// read-only and never written. terminator is the byte sequence appended to
// files that lack one (see ResolveTerminator).
func NewInspector(dryRun bool, terminator []byte) *Inspector {
	return &Inspector{
		dryRun:     dryRun,
		terminator: terminator,
	}
}

// Inspect determines whether path ends with a line terminator and, unless
// dry-run is set, appends one when it does not. Every failure is returned as
// an error for the caller to convert into a per-file outcome; Inspect never
// terminates the process.
//
// Emptiness is detected with an explicit length check (Stat) rather than by
// interpreting a seek failure, so unusual files that reject seeks still
// surface as errors instead of being misreported as empty.
func (ins *Inspector) Inspect(path string) (Status, error) {
	flags := os.O_RDWR
	if ins.dryRun {
		flags = os.O_RDONLY
	}

	file, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return StatusUpToDate, fmt.Errorf("failed to open: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return StatusUpToDate, fmt.Errorf("failed to stat: %w", err)
	}

	// Zero-length files are always up to date and never written to.
	if info.Size() == 0 {
		return StatusUpToDate, nil
	}

	var lastByte [1]byte
	if _, err := file.ReadAt(lastByte[:], info.Size()-1); err != nil {
		return StatusUpToDate, fmt.Errorf("failed to read last byte: %w", err)
	}

	if lastByte[0] == '\n' {
		return StatusUpToDate, nil
	}

	if ins.dryRun {
		return StatusWouldUpdate, nil
	}

	appended, err := ins.appendTerminator(file, path)
	if err != nil {
		return StatusUpToDate, err
	}
	if !appended {
		return StatusUpToDate, nil
	}

	return StatusUpdated, nil
}

// appendTerminator appends the terminator bytes to the end of the open file
// while holding an advisory lock, so two eolfix processes racing on the same
// file cannot double-append. The last byte is re-checked under the lock;
// appendTerminator returns false when another process already repaired the
// file.
func (ins *Inspector) appendTerminator(file *os.File, path string) (bool, error) {
	lock := filelock.New(path)
	if err := lock.Lock(); err != nil {
		return false, err
	}
	defer lock.Unlock()

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return false, fmt.Errorf("failed to seek to end: %w", err)
	}

	var lastByte [1]byte
	if _, err := file.ReadAt(lastByte[:], end-1); err != nil {
		return false, fmt.Errorf("failed to read last byte: %w", err)
	}
	if lastByte[0] == '\n' {
		return false, nil
	}

	if _, err := file.Write(ins.terminator); err != nil {
		return false, fmt.Errorf("failed to append terminator: %w", err)
	}
	if err := file.Sync(); err != nil {
		return false, fmt.Errorf("failed to flush: %w", err)
	}

	return true, nil
}
