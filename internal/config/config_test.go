package config

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envNetwork, envPrivateKey, envListenAddr, envRemoteURL, envReplayTTL, envValidateWindow} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	if err := Load("testdata/does-not-exist.env"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if AppConfig.Network != &chaincfg.MainNetParams {
		t.Errorf("Network = %v, want mainnet default", AppConfig.Network)
	}
	if AppConfig.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", AppConfig.ListenAddr, defaultListenAddr)
	}
	if AppConfig.ReplayTTL != defaultReplayTTL {
		t.Errorf("ReplayTTL = %v, want %v", AppConfig.ReplayTTL, defaultReplayTTL)
	}
	if AppConfig.ValidateWindow != defaultValidateWindow {
		t.Errorf("ValidateWindow = %v, want %v", AppConfig.ValidateWindow, defaultValidateWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envNetwork, "testnet")
	t.Setenv(envListenAddr, ":9999")
	t.Setenv(envReplayTTL, "30")
	t.Setenv(envValidateWindow, "5")
	t.Setenv(envPrivateKey, "deadbeef")

	if err := Load("testdata/does-not-exist.env"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if AppConfig.Network != &chaincfg.TestNet3Params {
		t.Errorf("Network = %v, want testnet", AppConfig.Network)
	}
	if AppConfig.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want :9999", AppConfig.ListenAddr)
	}
	if AppConfig.ReplayTTL != 30*time.Second {
		t.Errorf("ReplayTTL = %v, want 30s", AppConfig.ReplayTTL)
	}
	if AppConfig.ValidateWindow != 5*time.Second {
		t.Errorf("ValidateWindow = %v, want 5s", AppConfig.ValidateWindow)
	}
	if AppConfig.PrivateKeyHex != "deadbeef" {
		t.Errorf("PrivateKeyHex = %q, want deadbeef", AppConfig.PrivateKeyHex)
	}
}

func TestLoadUnknownNetwork(t *testing.T) {
	clearEnv(t)
	t.Setenv(envNetwork, "bogusnet")
	if err := Load("testdata/does-not-exist.env"); err == nil {
		t.Fatal("expected an error for an unknown network")
	}
}
