package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	btcschnorr "github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Sign produces a 64-byte BIP-340 Schnorr signature over a 32-byte
// digest using the tweaked private key d'. auxRand is the BIP-340
// auxiliary randomness; pass nil for the deterministic all-zero
// default, or a non-nil 32-byte value to randomize the nonce.
//
// Example:
//
//	kp, _ := GenerateKeyPair(&chaincfg.MainNetParams)
//	digest := SHA256([]byte("signing input"))
//	sig, err := Sign(digest, kp.TweakedPrivateKey(), nil)
//	// Result: [64]byte{0x.., ...} (r, then s)
func Sign(digest [32]byte, tweakedPriv *btcec.PrivateKey, auxRand *[32]byte) ([64]byte, error) {
	var aux [32]byte
	if auxRand != nil {
		aux = *auxRand
	}
	sig, err := btcschnorr.Sign(tweakedPriv, digest[:], btcschnorr.CustomNonce(aux))
	if err != nil {
		return [64]byte{}, err
	}
	var out [64]byte
	copy(out[:], sig.Serialize())
	return out, nil
}

// Verify checks a BIP-340 signature over digest against the x-only
// output key qXOnly. Any decode or verification failure returns
// false; it never raises, matching the protocol's signature
// verification contract.
//
// Example:
//
//	q, _ := kp.OutputKey()
//	ok := Verify(digest, q, sig)
//	// Result: true if sig was produced by the key pair behind q
func Verify(digest [32]byte, qXOnly [32]byte, sig [64]byte) bool {
	pub, err := btcschnorr.ParsePubKey(qXOnly[:])
	if err != nil {
		return false
	}
	parsed, err := btcschnorr.ParseSignature(sig[:])
	if err != nil {
		return false
	}
	return parsed.Verify(digest[:], pub)
}
