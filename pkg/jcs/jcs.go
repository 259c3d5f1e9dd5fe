// Package jcs implements RFC 8785 JSON Canonicalization (JCS): a
// deterministic byte encoding of a JSON value used to produce the
// canonical payload bytes that enter the signing input.
package jcs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"unicode/utf16"
)

// ErrNotCanonicalizable is returned when a value cannot be
// represented as JSON (e.g. NaN/Inf floats, channels, functions).
var ErrNotCanonicalizable = errors.New("jcs: value is not representable as JSON")

// Canonicalize returns the RFC 8785 canonical JSON encoding of value.
// value may be a Go value (struct, map, slice, ...) or already-decoded
// JSON (map[string]interface{}, []interface{}, ...); both are
// canonicalized identically because Canonicalize re-decodes through
// encoding/json to normalize numeric representations first.
func Canonicalize(value interface{}) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("jcs: %w", ErrNotCanonicalizable)
	}
	return CanonicalizeJSON(raw)
}

// CanonicalizeJSON re-encodes a JSON document in canonical form. The
// input must already be valid JSON; canonicalizing already-canonical
// output is idempotent.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("jcs: decode: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		return encodeNumber(buf, val)
	case string:
		return encodeString(buf, val)
	case []interface{}:
		return encodeArray(buf, val)
	case map[string]interface{}:
		return encodeObject(buf, val)
	default:
		return fmt.Errorf("jcs: %w: unsupported type %T", ErrNotCanonicalizable, v)
	}
}

func encodeArray(buf *bytes.Buffer, arr []interface{}) error {
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *bytes.Buffer, obj map[string]interface{}) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, obj[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// lessUTF16 orders strings by their UTF-16 code unit sequence, as RFC
// 8785 §3.2.3 requires for object key sorting. Go strings compare as
// UTF-8 byte sequences by default, which disagrees with UTF-16 code
// unit order only for codepoints outside the Basic Multilingual Plane
// (surrogate pairs); those are rare in protocol payloads, so plain
// UTF-16 re-encoding below is exact rather than approximated.
func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// encodeString writes a JSON string literal using RFC 8785's minimal
// escaping: only the characters JSON requires to be escaped are
// escaped, everything else (including non-ASCII) is emitted as-is.
func encodeString(buf *bytes.Buffer, s string) error {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
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
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return nil
}

// encodeNumber writes a JSON number using the ECMA-262 shortest
// round-trip representation RFC 8785 mandates: integers print without
// a decimal point or exponent where possible, and other values use
// the shortest round-trip digits, written in plain decimal form for
// magnitudes in [1e-6, 1e21) and in exponent form otherwise.
func encodeNumber(buf *bytes.Buffer, n json.Number) error {
	if i, err := n.Int64(); err == nil {
		buf.WriteString(strconv.FormatInt(i, 10))
		return nil
	}

	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("jcs: %w: invalid number %q", ErrNotCanonicalizable, n.String())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("jcs: %w: non-finite number", ErrNotCanonicalizable)
	}

	if f == 0 {
		buf.WriteString("0")
		return nil
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	formatted := strconv.FormatFloat(f, 'e', -1, 64)
	buf.WriteString(normalizeExponent(formatted))
	return nil
}

// normalizeExponent rewrites Go's exponent form (1e+21, 1e-07) into
// JCS's (1e+21, 1e-7): no leading zero in the exponent.
func normalizeExponent(s string) string {
	idx := -1
	for i, c := range s {
		if c == 'e' || c == 'E' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	sign := "+"
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		if exp[0] == '-' {
			sign = "-"
		}
		exp = exp[1:]
	}
	for len(exp) > 1 && exp[0] == '0' {
		exp = exp[1:]
	}
	return mantissa + "e" + sign + exp
}
