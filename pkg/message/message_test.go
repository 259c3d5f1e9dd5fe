package message

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/snap-protocol/snap/pkg/crypto"
)

func mustAddress(t *testing.T, kp *crypto.KeyPair) string {
	t.Helper()
	addr, err := kp.Address()
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	return addr
}

// TestSignVerifyRoundTrip covers S2: a signed request verifies, and
// changing the timestamp without re-signing breaks verification.
func TestSignVerifyRoundTrip(t *testing.T) {
	kpA, err := crypto.GenerateKeyPair(&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("GenerateKeyPair A: %v", err)
	}
	kpB, err := crypto.GenerateKeyPair(&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("GenerateKeyPair B: %v", err)
	}

	msg := NewBuilder().
		ID("msg-001").
		From(mustAddress(t, kpA)).
		To(mustAddress(t, kpB)).
		Kind(TypeRequest).
		Method("message/send").
		Payload(map[string]interface{}{}).
		Timestamp(1738627200).
		Build()

	sig, err := Sign(msg, kpA.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	msg.Sig = sig

	if !Verify(msg) {
		t.Fatal("Verify() = false, want true")
	}

	tampered := msg
	tampered.Timestamp = 1738627999
	if Verify(tampered) {
		t.Error("Verify() should fail after changing timestamp without re-signing")
	}
}

// TestAbsentToSigning covers S3: the signing input's 3rd field is
// empty when `to` is absent, and adding `to` post-signing breaks
// verification.
func TestAbsentToSigning(t *testing.T) {
	kp, err := crypto.GenerateKeyPair(&chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	msg := NewBuilder().
		ID("msg-002").
		From(mustAddress(t, kp)).
		Kind(TypeRequest).
		Method("service/call").
		Payload(map[string]interface{}{"name": "ping"}).
		Timestamp(1738627200).
		Build()

	input, err := SigningInput(msg)
	if err != nil {
		t.Fatalf("SigningInput: %v", err)
	}
	fields := splitBySep(input)
	if len(fields) != 7 {
		t.Fatalf("signing input has %d fields, want 7", len(fields))
	}
	if string(fields[2]) != "" {
		t.Errorf("3rd field = %q, want empty", fields[2])
	}

	sig, err := Sign(msg, kp.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	msg.Sig = sig
	if !Verify(msg) {
		t.Fatal("Verify() = false, want true")
	}

	withTo := msg
	withTo.To = mustAddress(t, kp)
	if Verify(withTo) {
		t.Error("adding `to` post-signing should break verification")
	}
}

func splitBySep(b []byte) [][]byte {
	var fields [][]byte
	start := 0
	for i, c := range b {
		if c == 0x00 {
			fields = append(fields, b[start:i])
			start = i + 1
		}
	}
	fields = append(fields, b[start:])
	return fields
}

func TestValidateRequestRequiresSignature(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair(&chaincfg.MainNetParams)
	msg := NewBuilder().
		ID("msg-003").
		From(mustAddress(t, kp)).
		Method("message/send").
		Timestamp(time.Now().Unix()).
		Build()

	err := Validate(msg, ValidateOptions{})
	if err == nil {
		t.Fatal("expected error validating unsigned request")
	}
}

func TestValidateResponseWithoutSignatureAllowed(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair(&chaincfg.MainNetParams)
	msg := NewBuilder().
		ID("msg-004").
		From(mustAddress(t, kp)).
		Kind(TypeResponse).
		Method("message/send").
		Timestamp(time.Now().Unix()).
		Build()

	if err := Validate(msg, ValidateOptions{}); err != nil {
		t.Errorf("unsigned response should validate, got %v", err)
	}
}

func TestValidateRejectsExpiredTimestamp(t *testing.T) {
	kp, _ := crypto.GenerateKeyPair(&chaincfg.MainNetParams)
	msg := NewBuilder().
		ID("msg-005").
		From(mustAddress(t, kp)).
		Method("message/send").
		Timestamp(1).
		Build()
	sig, err := Sign(msg, kp.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	msg.Sig = sig

	err = Validate(msg, ValidateOptions{})
	if err == nil {
		t.Fatal("expected TimestampExpired error")
	}
}

func TestValidateStructureNeverRaises(t *testing.T) {
	garbage := []Message{
		{},
		{ID: "ok", Version: "9.9"},
		{ID: "", Version: ProtocolVersion},
	}
	for _, m := range garbage {
		_ = ValidateStructure(m)
	}
}
