package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"airlift/internal/services"
	"airlift/internal/services/releaseapi"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token for the release service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			token := strings.TrimSpace(tokenFlag)
			if token == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Paste your API token: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return services.Wrap(services.ErrValidation, "login", "", "no token provided", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return services.Wrap(services.ErrValidation, "login", "", "no token provided", nil)
			}

			api := releaseapi.NewHTTPClient(cfg.API.BaseURL, token, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
			account, err := api.ValidateToken(cmd.Context())
			if err != nil {
				return services.Wrap(services.ErrPrecondition, "login", cfg.API.BaseURL, "token was rejected", err)
			}

			creds, err := ctx.credentials()
			if err != nil {
				return err
			}
			if err := creds.Save(token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", account.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "API token (prompted for when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := ctx.credentials()
			if err != nil {
				return err
			}
			if !creds.LoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err := creds.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
