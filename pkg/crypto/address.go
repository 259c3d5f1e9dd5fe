package crypto

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrNotTaproot is returned when a decoded address is well-formed
// bech32m but not a P2TR (witness version 1) address.
var ErrNotTaproot = errors.New("crypto: address is not a P2TR address")

// EncodeAddress bech32m-encodes a tweaked output key as a P2TR
// address on net. The result is always 62 characters.
//
// Example:
//
//	q, _ := kp.OutputKey()
//	addr, err := EncodeAddress(q, &chaincfg.MainNetParams)
//	// Result: "bc1p..." (62 characters)
func EncodeAddress(outputXOnly [32]byte, net *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressTaproot(outputXOnly[:], net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// ExtractOutputKey bech32m-decodes address and returns its 32-byte
// output key program. It fails on a bad checksum, a prefix outside
// {bc, tb}, or a witness version other than 1.
func ExtractOutputKey(address string, net *chaincfg.Params) ([32]byte, error) {
	addr, err := btcutil.DecodeAddress(address, net)
	if err != nil {
		return [32]byte{}, err
	}
	taproot, ok := addr.(*btcutil.AddressTaproot)
	if !ok {
		return [32]byte{}, ErrNotTaproot
	}
	var out [32]byte
	copy(out[:], taproot.WitnessProgram())
	return out, nil
}

// NetworkOf returns the network implied by an address's HRP prefix,
// or nil if the prefix matches neither mainnet nor testnet.
func NetworkOf(address string) *chaincfg.Params {
	switch {
	case strings.HasPrefix(address, "bc1p"):
		return &chaincfg.MainNetParams
	case strings.HasPrefix(address, "tb1p"):
		return &chaincfg.TestNet3Params
	default:
		return nil
	}
}

// ValidateAddress reports whether s is a well-formed 62-character
// P2TR address on mainnet or testnet. It never raises.
//
// Example:
//
//	ok := ValidateAddress("bc1pexampleexampleexampleexampleexampleexampleexampleexampl")
//	// Result: false (59 characters, not 62) — a genuine address from Address() returns true
func ValidateAddress(s string) bool {
	if len(s) != 62 {
		return false
	}
	net := NetworkOf(s)
	if net == nil {
		return false
	}
	_, err := ExtractOutputKey(s, net)
	return err == nil
}
