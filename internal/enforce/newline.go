package enforce

import "fmt"

// Terminator byte sequences selectable through configuration.
var (
	terminatorLF   = []byte{'\n'}
	terminatorCRLF = []byte{'\r', '\n'}
)

// ResolveTerminator maps a configured newline mode to the byte sequence
// appended to files that need one. Mode "auto" selects the platform default
// (LF everywhere except Windows, which uses CRLF). The empty string is
// treated as "auto".
func ResolveTerminator(mode string) ([]byte, error) {
	switch mode {
	case "", "auto":
		return platformTerminator, nil
	case "lf":
		return terminatorLF, nil
	case "crlf":
		return terminatorCRLF, nil
	default:
		return nil, fmt.Errorf("invalid newline mode %q (must be auto, lf, or crlf)", mode)
	}
}
