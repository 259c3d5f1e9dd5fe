// Package config loads peer configuration from the environment, in
// the style of walletserver/config: a package-level struct populated
// once by Load, backed by a .env file via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/joho/godotenv"
)

// PeerConfig holds everything an Agent needs to stand itself up:
// which network it derives addresses on, where its private key comes
// from, where it listens, and how long it remembers seen message ids.
type PeerConfig struct {
	Network        *chaincfg.Params
	PrivateKeyHex  string
	ListenAddr     string
	RemoteURL      string
	ReplayTTL      time.Duration
	ValidateWindow time.Duration
}

// AppConfig is populated by Load and read by cmd/snap.
var AppConfig PeerConfig

const (
	envNetwork        = "SNAP_NETWORK"
	envPrivateKey     = "SNAP_PRIVATE_KEY"
	envListenAddr     = "SNAP_LISTEN_ADDR"
	envRemoteURL      = "SNAP_REMOTE_URL"
	envReplayTTL      = "SNAP_REPLAY_TTL_SECONDS"
	envValidateWindow = "SNAP_VALIDATE_WINDOW_SECONDS"

	defaultListenAddr     = ":8787"
	defaultReplayTTL      = time.Hour
	defaultValidateWindow = 60 * time.Second
)

// Load reads envPath (if present) into the process environment, then
// populates AppConfig from the resulting variables. A missing .env
// file is not an error — Load ignores godotenv's not-exist error and
// fails only on an unreadable or malformed file — so deployments that
// set the environment directly work unchanged.
func Load(envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading env: %w", err)
	}

	net, err := parseNetwork(os.Getenv(envNetwork))
	if err != nil {
		return err
	}

	replayTTL := defaultReplayTTL
	if v := os.Getenv(envReplayTTL); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envReplayTTL, err)
		}
		replayTTL = time.Duration(secs) * time.Second
	}

	window := defaultValidateWindow
	if v := os.Getenv(envValidateWindow); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envValidateWindow, err)
		}
		window = time.Duration(secs) * time.Second
	}

	listenAddr := os.Getenv(envListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	AppConfig = PeerConfig{
		Network:        net,
		PrivateKeyHex:  os.Getenv(envPrivateKey),
		ListenAddr:     listenAddr,
		RemoteURL:      os.Getenv(envRemoteURL),
		ReplayTTL:      replayTTL,
		ValidateWindow: window,
	}
	return nil
}

func parseNetwork(name string) (*chaincfg.Params, error) {
	switch name {
	case "", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("%s: unknown network %q", envNetwork, name)
	}
}
