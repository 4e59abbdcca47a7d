// Package canon canonicalizes JSON documents.
//
// A document is parsed into a tree of map[string]any, []any and scalar
// values (numbers are kept as json.Number so their literal text survives),
// reordered by [SortValue], and rendered by the output package with sorted
// object keys, the configured indentation unit and the resolved line ending.
package canon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hupe1980/jsonsort/internal/lineending"
	"github.com/hupe1980/jsonsort/internal/output"
)

// FormatConfig is the per-invocation formatting configuration.
type FormatConfig struct {
	// IndentChar is the single whitespace character repeated per level.
	IndentChar rune
	// IndentCount is how many IndentChar make up one nesting level.
	IndentCount int
	// SortArrays enables sorting of arrays whose elements are all strings.
	SortArrays bool
	// LineEnding is the requested newline convention.
	LineEnding lineending.LineEnding
}

// DefaultFormatConfig returns one tab per level, no array sorting and a line
// ending taken from the input document.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		IndentChar:  '\t',
		IndentCount: 1,
		LineEnding:  lineending.SystemDefault,
	}
}

// Validate checks that the indentation unit is usable.
func (c FormatConfig) Validate() error {
	if !unicode.IsSpace(c.IndentChar) {
		return fmt.Errorf("invalid indent character %q: must be whitespace", c.IndentChar)
	}

	if c.IndentCount < 0 {
		return fmt.Errorf("invalid indent count %d: must not be negative", c.IndentCount)
	}

	return nil
}

// Indent returns the string written once per nesting level.
func (c FormatConfig) Indent() string {
	return strings.Repeat(string(c.IndentChar), c.IndentCount)
}

// SortText canonicalizes a single in-memory JSON document. It never touches
// the filesystem. Failures are *Error values of kind ParseError or WriteError.
func SortText(input string, cfg FormatConfig) (string, error) {
	v, err := Parse(input)
	if err != nil {
		return "", err
	}

	SortValue(v, cfg.SortArrays)

	resolved := lineending.Resolve(cfg.LineEnding, input)

	out, err := output.Serialize(v, output.SerializeOptions{
		Indent:  cfg.Indent(),
		Newline: resolved.Sequence(),
	})
	if err != nil {
		return "", &Error{Kind: WriteError, Err: err}
	}

	return string(out), nil
}

// Parse decodes exactly one JSON document. Whitespace may surround it;
// anything else after it is an error. Duplicate object keys keep the last
// value.
func Parse(input string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Errorf(ParseError, "empty document")
		}

		return nil, &Error{Kind: ParseError, Err: err}
	}

	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, &Error{Kind: ParseError, Err: err}
		}

		return nil, Errorf(ParseError, "unexpected trailing data %v after document", tok)
	}

	return v, nil
}

// DecodeText converts raw file content to text. Content must be valid UTF-8;
// a leading byte-order mark is removed.
func DecodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", Errorf(ReadError, "content is not valid UTF-8")
	}

	text, _, err := transform.Bytes(xunicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return "", &Error{Kind: ReadError, Err: err}
	}

	return string(text), nil
}
