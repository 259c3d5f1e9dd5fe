package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snap-protocol/snap/internal/config"
	"github.com/snap-protocol/snap/pkg/agent"
	"github.com/snap-protocol/snap/pkg/crypto"
	"github.com/snap-protocol/snap/pkg/store"
	"github.com/snap-protocol/snap/pkg/transport"
	"github.com/snap-protocol/snap/pkg/transport/httptransport"
)

func serveCmd() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run a SNAP peer that answers message/echo requests over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(envPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := config.AppConfig

			kp, err := loadOrGenerateKeyPair(cfg)
			if err != nil {
				return err
			}
			addr, err := kp.Address()
			if err != nil {
				return fmt.Errorf("derive address: %w", err)
			}
			logrus.WithField("address", addr).WithField("listen", cfg.ListenAddr).Info("snap: starting peer")

			a := agent.New(kp)
			a.SetReplayStore(store.NewMemoryReplayStore(cfg.ReplayTTL))
			a.SetTaskStore(store.NewMemoryTaskStore())
			a.SetValidateWindow(cfg.ValidateWindow)
			a.RegisterHandler("message/echo", func(ctx context.Context, hctx *agent.HandlerContext, payload map[string]interface{}) (map[string]interface{}, error) {
				return payload, nil
			})

			ht := &httptransport.HTTPTransport{ListenAddr: cfg.ListenAddr}
			a.AddTransport(ht)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				logrus.Info("snap: shutting down")
				cancel()
			}()

			var handler transport.Handler = a.ProcessInbound
			return ht.Listen(ctx, handler)
		},
	}

	cmd.Flags().StringVar(&envPath, "env", ".env", "path to a .env file with SNAP_* settings")
	return cmd
}

func loadOrGenerateKeyPair(cfg config.PeerConfig) (*crypto.KeyPair, error) {
	if cfg.PrivateKeyHex == "" {
		return crypto.GenerateKeyPair(cfg.Network)
	}
	d, err := hex.DecodeString(cfg.PrivateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode SNAP_PRIVATE_KEY: %w", err)
	}
	return crypto.KeyPairFromPrivateKeyBytes(d, cfg.Network)
}
