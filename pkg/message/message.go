// Package message defines the on-wire SnapMessage record, the
// canonical signing input it is signed over, a builder, and a
// validator.
package message

import (
	"encoding/json"
	"regexp"

	"github.com/google/uuid"
)

// Type is the SnapMessage's `type` field.
type Type string

const (
	TypeRequest  Type = "request"
	TypeResponse Type = "response"
	TypeEvent    Type = "event"
)

// ProtocolVersion is the only value the `version` field may hold.
const ProtocolVersion = "0.1"

// MaxPayloadBytes is the canonicalized payload size ceiling (§3).
const MaxPayloadBytes = 1 << 20

// MaxPayloadDepth is the maximum nesting depth of the payload tree.
const MaxPayloadDepth = 10

var (
	idPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	methodPattern = regexp.MustCompile(`^[a-z]+/[a-z_]+$`)
)

// Message is the SnapMessage record. The unsigned form has Sig == "".
type Message struct {
	ID        string                 `json:"id"`
	Version   string                 `json:"version"`
	From      string                 `json:"from"`
	To        string                 `json:"to,omitempty"`
	Type      Type                   `json:"type"`
	Method    string                 `json:"method"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
	Sig       string                 `json:"sig,omitempty"`
}

// Clone returns a deep-enough copy of m so later mutation of the
// original (or the copy) cannot affect the other. The payload map is
// copied deeply through a JSON round-trip, which is sufficient
// because payloads are treated as opaque, already-canonical trees.
func (m Message) Clone() Message {
	out := m
	if m.Payload != nil {
		raw, err := json.Marshal(m.Payload)
		if err == nil {
			var cloned map[string]interface{}
			if json.Unmarshal(raw, &cloned) == nil {
				out.Payload = cloned
			}
		}
	}
	return out
}

// ValidID reports whether s matches the id pattern (1-128 chars of
// [A-Za-z0-9_-]).
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// ValidMethod reports whether s matches the method pattern
// (^[a-z]+/[a-z_]+$).
func ValidMethod(s string) bool {
	return methodPattern.MatchString(s)
}

// NewID returns a fresh random message id suitable for outbound
// sends.
func NewID() string {
	return uuid.NewString()
}

// payloadDepth returns the nesting depth of a decoded JSON tree; a
// bare scalar has depth 0 and {} or [] has depth 1.
func payloadDepth(v interface{}) int {
	switch val := v.(type) {
	case map[string]interface{}:
		max := 0
		for _, child := range val {
			if d := payloadDepth(child); d > max {
				max = d
			}
		}
		return max + 1
	case []interface{}:
		max := 0
		for _, child := range val {
			if d := payloadDepth(child); d > max {
				max = d
			}
		}
		return max + 1
	default:
		return 0
	}
}
