package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"calmcp/internal/auth"
	"calmcp/internal/config"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Google Calendar credential",
		Long: `Manage the Google Calendar credential used by the google backend.

Run 'calmcp auth url' to print the authorization URL, visit it in a browser,
grant access, then run 'calmcp auth exchange <code>' with the authorization
code. Tokens are refreshed automatically afterwards.`,
	}

	cmd.AddCommand(newAuthURLCmd())
	cmd.AddCommand(newAuthExchangeCmd())
	return cmd
}

func gateFromEnv() (*auth.GoogleGate, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return auth.NewGoogleGate(auth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		TokenFile:    cfg.TokenFile,
	})
}

func newAuthURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the Google authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := gateFromEnv()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), gate.AuthorizationURL())
			return nil
		},
	}
}

func newAuthExchangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := gateFromEnv()
			if err != nil {
				return err
			}
			if err := gate.Exchange(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved. The server can now reach Google Calendar.")
			return nil
		},
	}
}
