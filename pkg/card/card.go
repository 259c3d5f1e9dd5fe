// Package card implements the AgentCard discovery document and its
// signed wrapper for unauthenticated serving (§3, §6).
package card

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/snap-protocol/snap/pkg/crypto"
	"github.com/snap-protocol/snap/pkg/jcs"
)

// Endpoint describes one way to reach an agent.
type Endpoint struct {
	Protocol string `json:"protocol"` // "http" or "wss"
	URL      string `json:"url"`
}

// Skill describes one capability an agent exposes.
type Skill struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	InputModes   []string `json:"inputModes,omitempty"`
	OutputModes  []string `json:"outputModes,omitempty"`
}

// Capabilities advertises optional protocol features.
type Capabilities struct {
	Streaming         bool `json:"streaming,omitempty"`
	PushNotifications bool `json:"pushNotifications,omitempty"`
	RateLimit         int  `json:"rateLimit,omitempty"`
}

// Card is the AgentCard discovery document.
type Card struct {
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Version            string        `json:"version"`
	Identity           string        `json:"identity"`
	Skills             []Skill       `json:"skills"`
	Endpoints          []Endpoint    `json:"endpoints,omitempty"`
	NostrRelays        []string      `json:"nostrRelays,omitempty"`
	Capabilities       *Capabilities `json:"capabilities,omitempty"`
	Provider           string        `json:"provider,omitempty"`
	Trust              string        `json:"trust,omitempty"`
	Icon               string        `json:"icon,omitempty"`
	DocumentationURL   string        `json:"documentationUrl,omitempty"`
	DefaultInputModes  []string      `json:"defaultInputModes"`
	DefaultOutputModes []string      `json:"defaultOutputModes"`
}

// Validate checks the required, non-empty fields §3 names. It never
// raises; any deviation returns false.
func (c Card) Validate() bool {
	if c.Name == "" || c.Version == "" {
		return false
	}
	if !crypto.ValidateAddress(c.Identity) {
		return false
	}
	if len(c.DefaultInputModes) == 0 || len(c.DefaultOutputModes) == 0 {
		return false
	}
	return true
}

// Wrapper is the signed envelope used when serving a card
// unauthenticated (§6): sig signs SHA-256(canonicalize(card) ‖ "|" ‖ timestamp).
type Wrapper struct {
	Card      Card   `json:"card"`
	Sig       string `json:"sig"`
	PublicKey string `json:"publicKey"`
	Timestamp int64  `json:"timestamp"`
}

// Sign builds a signed Wrapper around card using the tweaked private
// key. publicKey is the hex-encoded x-only key the wrapper advertises
// (conventionally the card's own output key).
func Sign(c Card, tweakedPriv *btcec.PrivateKey, publicKey [32]byte, timestamp time.Time) (Wrapper, error) {
	digest, err := wrapperDigest(c, timestamp.Unix())
	if err != nil {
		return Wrapper{}, err
	}
	sig, err := crypto.Sign(digest, tweakedPriv, nil)
	if err != nil {
		return Wrapper{}, fmt.Errorf("card: sign: %w", err)
	}
	return Wrapper{
		Card:      c,
		Sig:       hex.EncodeToString(sig[:]),
		PublicKey: hex.EncodeToString(publicKey[:]),
		Timestamp: timestamp.Unix(),
	}, nil
}

// VerifyWrapper checks w.Sig against the output key encoded in
// w.Card.Identity. Any decoding or cryptographic failure returns
// false.
func VerifyWrapper(w Wrapper) bool {
	if len(w.Sig) != 128 {
		return false
	}
	sigBytes, err := hex.DecodeString(w.Sig)
	if err != nil {
		return false
	}
	var sig [64]byte
	copy(sig[:], sigBytes)

	net := crypto.NetworkOf(w.Card.Identity)
	if net == nil {
		return false
	}
	qXOnly, err := crypto.ExtractOutputKey(w.Card.Identity, net)
	if err != nil {
		return false
	}

	digest, err := wrapperDigest(w.Card, w.Timestamp)
	if err != nil {
		return false
	}
	return crypto.Verify(digest, qXOnly, sig)
}

func wrapperDigest(c Card, timestamp int64) ([32]byte, error) {
	canonicalCard, err := jcs.Canonicalize(c)
	if err != nil {
		return [32]byte{}, err
	}
	preimage := crypto.Concat(canonicalCard, []byte(fmt.Sprintf("|%d", timestamp)))
	return crypto.SHA256(preimage), nil
}
