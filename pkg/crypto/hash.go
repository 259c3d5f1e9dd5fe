package crypto

import "crypto/sha256"

// SHA256 returns the SHA-256 digest of data. Used to compute the
// signing digest over the canonical signing input.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Concat returns a ‖ b.
func Concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
