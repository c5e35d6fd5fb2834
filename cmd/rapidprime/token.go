package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RapidPrime/ReferenceClient/internal/adapter/crypto"
	"github.com/RapidPrime/ReferenceClient/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		ttl     time.Duration
		subject string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the status API from STATUS_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive")
			}
			svc := crypto.NewJWTService(config.NewJwtConfig())
			tok, err := svc.GenerateTokenHMAC(cmd.Context(), "HS256", map[string]interface{}{
				"sub": subject,
				"iat": time.Now().Unix(),
				"exp": time.Now().Add(ttl).Unix(),
			})
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", crypto.DefaultTokenTTL, "token lifetime")
	cmd.Flags().StringVar(&subject, "subject", "status", "token subject")
	return cmd
}
