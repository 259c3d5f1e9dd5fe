package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snap-protocol/snap/internal/config"
	"github.com/snap-protocol/snap/pkg/agent"
	"github.com/snap-protocol/snap/pkg/transport/httptransport"
)

func sendCmd() *cobra.Command {
	var envPath, to, method, payloadJSON string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "sign and send a single request to a peer, printing its response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(envPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := config.AppConfig
			if cfg.RemoteURL == "" {
				return fmt.Errorf("SNAP_REMOTE_URL is not set")
			}
			if to == "" {
				return fmt.Errorf("--to is required")
			}

			payload := map[string]interface{}{}
			if payloadJSON != "" {
				if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
					return fmt.Errorf("--payload: %w", err)
				}
			}

			kp, err := loadOrGenerateKeyPair(cfg)
			if err != nil {
				return err
			}

			a := agent.New(kp)
			a.AddTransport(&httptransport.HTTPTransport{RemoteURL: cfg.RemoteURL})

			resp, err := a.Send(context.Background(), to, method, payload)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&envPath, "env", ".env", "path to a .env file with SNAP_* settings")
	cmd.Flags().StringVar(&to, "to", "", "recipient P2TR address")
	cmd.Flags().StringVar(&method, "method", "message/echo", "method to invoke")
	cmd.Flags().StringVar(&payloadJSON, "payload", "", "JSON object to send as the request payload")
	return cmd
}
