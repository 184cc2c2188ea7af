package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/middleware"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		expiry  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with AUTH_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Auth.Enabled() {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			jwtCfg := cfg.Auth.Jwt
			if expiry > 0 {
				jwtCfg.Expiry = expiry
			}
			token, err := middleware.IssueToken(jwtCfg, subject, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "override AUTH_JWT_EXPIRY")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
