// Package lineending decides which newline sequence a rendered document uses.
//
// A request is either explicit (CR, LF, CRLF) or SystemDefault. Explicit
// requests always win. SystemDefault is resolved from the input text when it
// contains any newline, and from the host platform otherwise.
package lineending

import (
	"fmt"
	"runtime"
	"strings"
)

// LineEnding is a newline convention.
type LineEnding int

// Supported line endings. SystemDefault is a request, never an output value.
const (
	SystemDefault LineEnding = iota
	CR
	LF
	CRLF
)

// Parse converts a user-supplied name into a LineEnding. Matching is
// case-insensitive; the empty string, "auto", "system" and "default" all
// select SystemDefault.
func Parse(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "system", "default":
		return SystemDefault, nil
	case "cr":
		return CR, nil
	case "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	default:
		return SystemDefault, fmt.Errorf("invalid line ending %q: must be one of auto, cr, lf, crlf", s)
	}
}

// String returns the configuration name of the line ending.
func (l LineEnding) String() string {
	switch l {
	case CR:
		return "cr"
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	default:
		return "auto"
	}
}

// Sequence returns the bytes written for a newline. SystemDefault yields the
// host platform's sequence.
func (l LineEnding) Sequence() string {
	switch l {
	case CR:
		return "\r"
	case LF:
		return "\n"
	case CRLF:
		return "\r\n"
	default:
		return HostDefault().Sequence()
	}
}

// Detect reports the newline convention used by text. CRLF is checked before
// LF since every CRLF contains an LF. The boolean is false when text contains
// no newline at all.
func Detect(text string) (LineEnding, bool) {
	switch {
	case strings.Contains(text, "\r\n"):
		return CRLF, true
	case strings.Contains(text, "\n"):
		return LF, true
	case strings.Contains(text, "\r"):
		return CR, true
	default:
		return SystemDefault, false
	}
}

// Resolve turns a requested line ending into a concrete one. Explicit
// requests are returned unchanged; SystemDefault is detected from text and
// falls back to HostDefault.
func Resolve(requested LineEnding, text string) LineEnding {
	if requested != SystemDefault {
		return requested
	}

	if detected, ok := Detect(text); ok {
		return detected
	}

	return HostDefault()
}

// HostDefault is CRLF on Windows and LF everywhere else.
func HostDefault() LineEnding {
	return hostDefault(runtime.GOOS)
}

func hostDefault(goos string) LineEnding {
	if goos == "windows" {
		return CRLF
	}

	return LF
}
