//go:build !windows

package enforce

// platformTerminator is the terminator appended in "auto" mode on
// POSIX-like targets.
var platformTerminator = terminatorLF
