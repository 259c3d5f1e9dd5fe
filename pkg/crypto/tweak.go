package crypto

import (
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcschnorr "github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// ErrTweakOutOfRange is returned when the BIP-341 tweak scalar is not
// less than the curve order — cryptographically negligible for a
// genuine secp256k1 point but checked explicitly per the protocol's
// key-derivation invariant.
var ErrTweakOutOfRange = errors.New("crypto: tap tweak scalar exceeds curve order")

// XOnly serializes a public key to its 32-byte x-only form.
func XOnly(pub *btcec.PublicKey) [32]byte {
	var out [32]byte
	copy(out[:], btcschnorr.SerializePubKey(pub))
	return out
}

// TaprootTweak computes the BIP-341 key-path tweak of an untweaked
// x-only internal key with no script tree, returning the resulting
// x-only output key Q.x. It rejects the rare case where the tweak
// scalar is not less than the curve order.
//
// Example:
//
//	internal := XOnly(priv.PubKey())
//	q, err := TaprootTweak(internal)
//	// Result: q is the x-only key a P2TR address encodes
func TaprootTweak(internalXOnly [32]byte) ([32]byte, error) {
	t := chainhash.TaggedHash(chainhash.TagTapTweak, internalXOnly[:])
	tScalar := new(big.Int).SetBytes(t[:])
	if tScalar.Cmp(N) >= 0 {
		return [32]byte{}, ErrTweakOutOfRange
	}

	internalPub, err := btcschnorr.ParsePubKey(internalXOnly[:])
	if err != nil {
		return [32]byte{}, err
	}
	outputPub := txscript.ComputeTaprootKeyNoScript(internalPub)
	return XOnly(outputPub), nil
}

// TweakPrivateKey derives d', the private scalar that signs for the
// tweaked output key Q: it negates d if P has odd y, then adds the
// TapTweak scalar mod N.
func TweakPrivateKey(priv *btcec.PrivateKey) *btcec.PrivateKey {
	return txscript.TweakTaprootPrivKey(priv, nil)
}
