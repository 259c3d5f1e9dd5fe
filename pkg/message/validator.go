package message

import (
	"time"

	"github.com/snap-protocol/snap/pkg/crypto"
	"github.com/snap-protocol/snap/pkg/jcs"
	"github.com/snap-protocol/snap/pkg/snaperr"
)

// ValidateOptions configures Validate's timestamp window check.
type ValidateOptions struct {
	// Window bounds how far the message timestamp may drift from now
	// in either direction. Zero selects the default ±60s.
	Window time.Duration
	// Now overrides the reference clock; zero selects time.Now.
	Now time.Time
}

const defaultTimestampWindow = 60 * time.Second

// ValidateStructure checks field presence and pattern constraints
// (§3's field table) without touching signatures or the clock. It
// never raises; any deviation returns false, making it safe to call
// on untrusted input.
func ValidateStructure(m Message) bool {
	if !ValidID(m.ID) {
		return false
	}
	if m.Version != ProtocolVersion {
		return false
	}
	if !crypto.ValidateAddress(m.From) {
		return false
	}
	if m.To != "" && !crypto.ValidateAddress(m.To) {
		return false
	}
	if m.From != "" && m.To != "" {
		if crypto.NetworkOf(m.From) != crypto.NetworkOf(m.To) {
			return false
		}
	}
	switch m.Type {
	case TypeRequest, TypeResponse, TypeEvent:
	default:
		return false
	}
	if !ValidMethod(m.Method) {
		return false
	}
	if m.Timestamp < 0 {
		return false
	}
	if m.Type == TypeRequest && len(m.Sig) != 128 {
		return false
	}
	if m.Sig != "" && len(m.Sig) != 128 {
		return false
	}

	canonicalPayload, err := jcs.Canonicalize(m.Payload)
	if err != nil {
		return false
	}
	if len(canonicalPayload) > MaxPayloadBytes {
		return false
	}
	if payloadDepth(m.Payload) > MaxPayloadDepth {
		return false
	}
	return true
}

// Validate runs the full pipeline: payload size check, structural
// check, then the timestamp window check (a zero Window selects the
// default ±60s), then signature verification. It returns a typed
// *snaperr.Error for the first distinct cause it finds, matching §4.4
// and §7; an oversized canonical payload is reported as
// InvalidPayload.
func Validate(m Message, opts ValidateOptions) error {
	if canonical, err := jcs.Canonicalize(m.Payload); err == nil && len(canonical) > MaxPayloadBytes {
		return snaperr.New(snaperr.InvalidPayload, "canonicalized payload exceeds the size limit")
	}
	if !ValidateStructure(m) {
		return snaperr.New(snaperr.InvalidMessage, "message failed structural validation")
	}

	window := opts.Window
	if window == 0 {
		window = defaultTimestampWindow
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	drift := now.Unix() - m.Timestamp
	if drift > int64(window/time.Second) || drift < -int64(window/time.Second) {
		return snaperr.New(snaperr.TimestampExpired, "message timestamp outside validity window")
	}

	if m.Type == TypeRequest && m.Sig == "" {
		return snaperr.New(snaperr.SignatureMissing, "request message has no signature")
	}
	if m.Sig != "" {
		if !Verify(m) {
			return snaperr.New(snaperr.SignatureInvalid, "signature does not verify")
		}
	}
	return nil
}
