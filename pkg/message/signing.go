package message

import (
	"strconv"

	"github.com/snap-protocol/snap/pkg/crypto"
	"github.com/snap-protocol/snap/pkg/jcs"
)

// sep is the single NUL byte separating the seven signing-input
// fields.
const sep = byte(0x00)

// SigningInput builds the seven-field NUL-joined byte string that is
// hashed and signed (§4.3):
//
//	id‖0x00‖from‖0x00‖(to or "")‖0x00‖type‖0x00‖method‖0x00‖canonicalPayload‖0x00‖timestamp
//
// An absent `to` contributes the empty string so the shape is always
// six separators over seven fields.
func SigningInput(m Message) ([]byte, error) {
	canonicalPayload, err := jcs.Canonicalize(m.Payload)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 256)
	out = append(out, m.ID...)
	out = append(out, sep)
	out = append(out, m.From...)
	out = append(out, sep)
	out = append(out, m.To...)
	out = append(out, sep)
	out = append(out, string(m.Type)...)
	out = append(out, sep)
	out = append(out, m.Method...)
	out = append(out, sep)
	out = append(out, canonicalPayload...)
	out = append(out, sep)
	out = append(out, strconv.FormatInt(m.Timestamp, 10)...)
	return out, nil
}

// SigningDigest returns SHA-256 of the UTF-8 signing input bytes.
func SigningDigest(m Message) ([32]byte, error) {
	input, err := SigningInput(m)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.SHA256(input), nil
}
