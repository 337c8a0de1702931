package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airlift/internal/preflight"
	"airlift/internal/release"
	"airlift/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment is ready to publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			creds, err := ctx.credentials()
			if err != nil {
				return err
			}
			platform, err := release.ParsePlatform(platformFlag)
			if err != nil {
				return services.Wrap(services.ErrValidation, "doctor", platformFlag, "", err)
			}
			projectDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}

			validator := preflight.NewValidator(cfg, creds)
			results := validator.RunAll(cmd.Context(), preflight.Request{
				Platform:   platform,
				ProjectDir: projectDir,
				Extra:      []preflight.Check{connectivityCheck(ctx)},
			})

			out := cmd.OutOrStdout()
			failed := 0
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "failed"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failed > 0 {
				return services.Wrap(services.ErrPrecondition, "doctor", "",
					fmt.Sprintf("%d of %d checks failed", failed, len(results)), nil)
			}
			fmt.Fprintln(out, "Environment is ready to publish.")
			return nil
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", string(release.PlatformAndroid), "Target platform to check (android or ios)")
	return cmd
}

// connectivityCheck verifies the service accepts the stored token. It passes
// with a note when no one is logged in so the authentication check stays the
// single source of that failure.
func connectivityCheck(ctx *commandContext) preflight.Check {
	return func(checkCtx context.Context) preflight.Result {
		result := preflight.Result{Name: "Service connectivity"}
		creds, err := ctx.credentials()
		if err != nil {
			result.Detail = err.Error()
			return result
		}
		if !creds.LoggedIn() {
			result.Passed = true
			result.Detail = "skipped (not logged in)"
			return result
		}
		api, err := ctx.apiClient()
		if err != nil {
			result.Detail = err.Error()
			return result
		}
		account, err := api.ValidateToken(checkCtx)
		if err != nil {
			result.Detail = err.Error()
			return result
		}
		result.Passed = true
		result.Detail = fmt.Sprintf("authenticated as %s", account.Email)
		return result
	}
}
