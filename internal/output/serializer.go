package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SerializeOptions configures the indented JSON serializer.
type SerializeOptions struct {
	// Indent is the whitespace written once per nesting level. It may be empty.
	Indent string
	// Newline is the line-ending sequence used for every line break,
	// including the document terminator.
	Newline string
}

// Serialize renders a decoded JSON tree as pretty-printed text.
//
// Object keys are always emitted in ascending byte order. Arrays keep their
// order. Empty containers render as {} and [] with no interior newline. The
// output ends with exactly one opts.Newline.
//
// Supported node types are nil, bool, string, json.Number, float64, int,
// int64, map[string]any and []any.
func Serialize(v any, opts SerializeOptions) ([]byte, error) {
	if opts.Newline == "" {
		opts.Newline = "\n"
	}

	s := &serializer{opts: opts}
	if err := s.value(v, 0); err != nil {
		return nil, err
	}

	s.buf.WriteString(opts.Newline)

	return s.buf.Bytes(), nil
}

type serializer struct {
	buf  bytes.Buffer
	opts SerializeOptions
}

func (s *serializer) value(v any, depth int) error {
	switch val := v.(type) {
	case nil:
		s.buf.WriteString("null")
	case bool:
		s.buf.WriteString(strconv.FormatBool(val))
	case string:
		writeString(&s.buf, val)
	case json.Number:
		if !json.Valid([]byte(val)) {
			return fmt.Errorf("serializing number %q: invalid JSON number", string(val))
		}

		s.buf.WriteString(string(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("serializing number: unsupported value %v", val)
		}

		s.buf.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case int:
		s.buf.WriteString(strconv.Itoa(val))
	case int64:
		s.buf.WriteString(strconv.FormatInt(val, 10))
	case map[string]any:
		return s.object(val, depth)
	case []any:
		return s.array(val, depth)
	default:
		return fmt.Errorf("serializing value: unsupported type %T", v)
	}

	return nil
}

func (s *serializer) object(m map[string]any, depth int) error {
	if len(m) == 0 {
		s.buf.WriteString("{}")
		return nil
	}

	s.buf.WriteByte('{')

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for i, key := range keys {
		if i > 0 {
			s.buf.WriteByte(',')
		}

		s.newline(depth + 1)
		writeString(&s.buf, key)
		s.buf.WriteString(": ")

		if err := s.value(m[key], depth+1); err != nil {
			return err
		}
	}

	s.newline(depth)
	s.buf.WriteByte('}')

	return nil
}

func (s *serializer) array(items []any, depth int) error {
	if len(items) == 0 {
		s.buf.WriteString("[]")
		return nil
	}

	s.buf.WriteByte('[')

	for i, item := range items {
		if i > 0 {
			s.buf.WriteByte(',')
		}

		s.newline(depth + 1)

		if err := s.value(item, depth+1); err != nil {
			return err
		}
	}

	s.newline(depth)
	s.buf.WriteByte(']')

	return nil
}

// newline starts a new line indented to depth.
func (s *serializer) newline(depth int) {
	s.buf.WriteString(s.opts.Newline)
	s.buf.WriteString(strings.Repeat(s.opts.Indent, depth))
}

const hexDigits = "0123456789abcdef"

// writeString quotes str as a JSON string. Only the quote, the backslash and
// control characters are escaped; everything else is written verbatim.
func writeString(buf *bytes.Buffer, str string) {
	buf.WriteByte('"')

	start := 0

	for i := 0; i < len(str); {
		c := str[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			if c < utf8.RuneSelf {
				i++
				continue
			}

			r, size := utf8.DecodeRuneInString(str[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteString(str[start:i])
				buf.WriteString("\ufffd")
				i += size
				start = i

				continue
			}

			i += size

			continue
		}

		buf.WriteString(str[start:i])

		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xf])
		}

		i++
		start = i
	}

	buf.WriteString(str[start:])
	buf.WriteByte('"')
}
