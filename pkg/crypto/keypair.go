package crypto

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
)

// KeyPair holds the untweaked secp256k1 private key behind a SNAP
// identity and the network its address is encoded for. The tweaked
// private key is never stored; it is derived on demand and held only
// for the duration of a signing call.
type KeyPair struct {
	priv *btcec.PrivateKey
	net  *chaincfg.Params
}

// GenerateKeyPair creates a fresh random key pair for net.
//
// Example:
//
//	kp, err := GenerateKeyPair(&chaincfg.MainNetParams)
//	addr, _ := kp.Address()
//	// Result: addr == "bc1p..." (62-character P2TR address)
func GenerateKeyPair(net *chaincfg.Params) (*KeyPair, error) {
	scalar, err := RandScalar()
	if err != nil {
		return nil, err
	}
	var d [32]byte
	scalar.FillBytes(d[:])
	priv, _ := btcec.PrivKeyFromBytes(d[:])
	return &KeyPair{priv: priv, net: net}, nil
}

// KeyPairFromPrivateKeyBytes reconstructs a key pair from a 32-byte
// private scalar.
func KeyPairFromPrivateKeyBytes(d []byte, net *chaincfg.Params) (*KeyPair, error) {
	if len(d) != 32 {
		return nil, errors.New("crypto: private key must be 32 bytes")
	}
	priv, _ := btcec.PrivKeyFromBytes(d)
	return &KeyPair{priv: priv, net: net}, nil
}

// Network returns the network this key pair's address encodes for.
func (kp *KeyPair) Network() *chaincfg.Params {
	return kp.net
}

// PrivateKeyBytes returns the untweaked 32-byte private scalar d.
func (kp *KeyPair) PrivateKeyBytes() [32]byte {
	return [32]byte(kp.priv.Serialize())
}

// InternalXOnly returns P.x, the untweaked internal key — also the
// identity used outside the P2TR address (e.g. as a Nostr pubkey).
func (kp *KeyPair) InternalXOnly() [32]byte {
	return XOnly(kp.priv.PubKey())
}

// OutputKey derives Q.x, the BIP-341 tweaked output key encoded in
// the P2TR address.
func (kp *KeyPair) OutputKey() ([32]byte, error) {
	return TaprootTweak(kp.InternalXOnly())
}

// TweakedPrivateKey derives d', the scalar that signs for Q.
func (kp *KeyPair) TweakedPrivateKey() *btcec.PrivateKey {
	return TweakPrivateKey(kp.priv)
}

// Address derives the bech32m P2TR address for this key pair.
//
// Example:
//
//	kp, _ := GenerateKeyPair(&chaincfg.TestNet3Params)
//	addr, err := kp.Address()
//	// Result: "tb1p..." (testnet P2TR address)
func (kp *KeyPair) Address() (string, error) {
	q, err := kp.OutputKey()
	if err != nil {
		return "", err
	}
	return EncodeAddress(q, kp.net)
}
