//go:build windows

package enforce

// platformTerminator is the terminator appended in "auto" mode on Windows.
var platformTerminator = terminatorCRLF
