package crypto

import (
	"crypto/rand"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

var (
	// curve is the secp256k1 curve SNAP identities are derived on.
	curve = btcec.S256()
	// N is the order of the secp256k1 curve; scalars (private keys,
	// tweaks) live in [0, N).
	N = curve.N
)

// RandScalar returns a cryptographically random non-zero scalar below
// N, used by GenerateKeyPair in place of btcec's own key generator so
// key generation draws from the same curve-order-aware randomness
// path as the rest of this package.
func RandScalar() (*big.Int, error) {
	for {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, err
		}
		k := new(big.Int).SetBytes(buf[:])
		k.Mod(k, N)
		if k.Sign() != 0 {
			return k, nil
		}
	}
}
