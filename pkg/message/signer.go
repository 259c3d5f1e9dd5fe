package message

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/snap-protocol/snap/pkg/crypto"
)

// Sign computes the tweaked-key signature over m's signing input and
// returns the lowercase 128-char hex encoding required by §4.3.
// auxRand is forwarded to crypto.Sign; nil selects the deterministic
// all-zero default.
func Sign(m Message, tweakedPriv *btcec.PrivateKey, auxRand *[32]byte) (string, error) {
	digest, err := SigningDigest(m)
	if err != nil {
		return "", err
	}
	sig, err := crypto.Sign(digest, tweakedPriv, auxRand)
	if err != nil {
		return "", fmt.Errorf("message: sign: %w", err)
	}
	return hex.EncodeToString(sig[:]), nil
}

// Verify extracts Q.x from m.From and checks m.Sig against the
// recomputed signing digest. Any decoding or cryptographic failure
// returns false, never an error, matching §4.3's verify contract.
func Verify(m Message) bool {
	if len(m.Sig) != 128 {
		return false
	}
	sigBytes, err := hex.DecodeString(m.Sig)
	if err != nil {
		return false
	}
	var sig [64]byte
	copy(sig[:], sigBytes)

	net := crypto.NetworkOf(m.From)
	if net == nil {
		return false
	}
	qXOnly, err := crypto.ExtractOutputKey(m.From, net)
	if err != nil {
		return false
	}

	digest, err := SigningDigest(m)
	if err != nil {
		return false
	}
	return crypto.Verify(digest, qXOnly, sig)
}
