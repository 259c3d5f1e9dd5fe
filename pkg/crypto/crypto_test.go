package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
)

// TestAddressDerivation covers S1: d = 32 bytes of 0x0a derives a
// 62-char bc1p address whose output key round-trips through
// ExtractOutputKey and differs from the internal x-only key.
func TestAddressDerivation(t *testing.T) {
	d := bytes32(0x0a)
	kp, err := KeyPairFromPrivateKeyBytes(d[:], &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("KeyPairFromPrivateKeyBytes: %v", err)
	}

	addr, err := kp.Address()
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	t.Logf("address: %s", addr)

	if len(addr) != 62 {
		t.Errorf("address length = %d, want 62", len(addr))
	}
	if !strings.HasPrefix(addr, "bc1p") {
		t.Errorf("address %q does not start with bc1p", addr)
	}
	if !ValidateAddress(addr) {
		t.Errorf("ValidateAddress(%q) = false, want true", addr)
	}

	outputKey, err := kp.OutputKey()
	if err != nil {
		t.Fatalf("OutputKey: %v", err)
	}
	extracted, err := ExtractOutputKey(addr, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("ExtractOutputKey: %v", err)
	}
	if extracted != outputKey {
		t.Errorf("ExtractOutputKey = %x, want %x", extracted, outputKey)
	}

	internal := kp.InternalXOnly()
	if internal == outputKey {
		t.Error("tweaked output key should differ from the internal key")
	}
}

func TestValidateAddressRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not an address",
		"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", // P2WPKH, not taproot
		strings.Repeat("x", 62),
	}
	for _, c := range cases {
		if ValidateAddress(c) {
			t.Errorf("ValidateAddress(%q) = true, want false", c)
		}
	}
}

// TestSignVerifyRoundTrip covers invariant 2: verify(m, sign(m, d)) is
// true, and flipping a single bit of the digest breaks verification.
func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	outputKey, err := kp.OutputKey()
	if err != nil {
		t.Fatalf("OutputKey: %v", err)
	}

	digest := SHA256([]byte("signing input fixture"))
	sig, err := Sign(digest, kp.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(digest, outputKey, sig) {
		t.Error("Verify() = false, want true for untouched digest")
	}

	flipped := digest
	flipped[0] ^= 0x01
	if Verify(flipped, outputKey, sig) {
		t.Error("Verify() = true, want false for flipped digest")
	}
}

func TestSignDeterministicByDefault(t *testing.T) {
	kp, err := GenerateKeyPair(&chaincfg.TestNet3Params)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	digest := SHA256([]byte("deterministic fixture"))

	sig1, err := Sign(digest, kp.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign (1): %v", err)
	}
	sig2, err := Sign(digest, kp.TweakedPrivateKey(), nil)
	if err != nil {
		t.Fatalf("Sign (2): %v", err)
	}
	if sig1 != sig2 {
		t.Errorf("default signing should be deterministic: %x != %x", sig1, sig2)
	}
	t.Logf("sig: %s", hex.EncodeToString(sig1[:]))
}

func TestVerifyNeverRaisesOnGarbage(t *testing.T) {
	var digest [32]byte
	var garbageKey [32]byte
	var garbageSig [64]byte
	if Verify(digest, garbageKey, garbageSig) {
		t.Error("Verify() on all-zero input should be false")
	}
}

func bytes32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}
