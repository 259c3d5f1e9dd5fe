package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/cobra"

	"github.com/snap-protocol/snap/pkg/crypto"
)

func keygenCmd() *cobra.Command {
	var testnet bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate a new SNAP identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			net := &chaincfg.MainNetParams
			if testnet {
				net = &chaincfg.TestNet3Params
			}

			kp, err := crypto.GenerateKeyPair(net)
			if err != nil {
				return fmt.Errorf("generate key pair: %w", err)
			}
			addr, err := kp.Address()
			if err != nil {
				return fmt.Errorf("derive address: %w", err)
			}
			priv := kp.PrivateKeyBytes()

			fmt.Printf("address:     %s\n", addr)
			fmt.Printf("private key: %s\n", hex.EncodeToString(priv[:]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&testnet, "testnet", false, "derive the address on testnet3 instead of mainnet")
	return cmd
}
