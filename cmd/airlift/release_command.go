package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"airlift/internal/history"
	"airlift/internal/logging"
	"airlift/internal/preflight"
	"airlift/internal/release"
	"airlift/internal/services"
	"airlift/internal/services/flutter"
	"airlift/internal/workflow"
)

func newReleaseCommand(ctx *commandContext) *cobra.Command {
	var versionFlag string
	var platformFlag string
	var flavorFlag string
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Build and publish a framework bundle release",
		Long: "Builds the Flutter framework bundle for the target platform, then " +
			"uploads it and activates the release. The command asks for confirmation " +
			"before anything is sent to the service; pass --force to skip the prompt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			platform, err := release.ParsePlatform(platformFlag)
			if err != nil {
				return services.Wrap(services.ErrValidation, "release", platformFlag, "", err)
			}

			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			creds, err := ctx.credentials()
			if err != nil {
				return err
			}

			toolchainOpts := []flutter.Option{}
			if cfg.Flutter.Root != "" {
				toolchainOpts = append(toolchainOpts, flutter.WithRoot(cfg.Flutter.Root))
			}
			toolchain, err := flutter.New(cfg.Flutter.Binary, cfg.Flutter.GitBinary, toolchainOpts...)
			if err != nil {
				return err
			}

			projectDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}

			opts := []workflow.Option{}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				logger.Warn("publish history unavailable", logging.Error(err))
			} else {
				defer store.Close()
				opts = append(opts, workflow.WithHistory(store))
			}

			var tracker *uploadProgress
			if isatty.IsTerminal(os.Stdout.Fd()) {
				tracker = newUploadProgress(cmd.OutOrStdout())
				opts = append(opts, workflow.WithProgress(tracker.update))
			}

			workflowLogger := logging.NewComponentLogger(logger, "workflow")
			publisher := workflow.NewPublisher(workflowLogger, api, toolchain, preflight.NewValidator(cfg, creds), opts...)
			outcome, runErr := publisher.Run(cmd.Context(), workflow.Request{
				ProjectDir: projectDir,
				Version:    versionFlag,
				Platform:   platform,
				Flavor:     flavorFlag,
				Force:      forceFlag,
			})
			if tracker != nil {
				tracker.finish()
			}
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			if outcome.Aborted {
				fmt.Fprintln(out, "Aborting.")
				return nil
			}

			rel := outcome.Release
			fmt.Fprintf(out, "\nPublished %s %s for %s.\n", rel.AppID, rel.Version, platform.Label())
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Release ID", fmt.Sprintf("%d", rel.ID)},
					{"Version", rel.Version},
					{"Platform", platform.Label()},
					{"Status", string(rel.StatusFor(platform))},
					{"Flutter revision", outcome.FlutterRevision},
					{"Artifact", outcome.ArtifactPath},
				},
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&versionFlag, "version", "", "Release version to publish (required)")
	cmd.Flags().StringVar(&platformFlag, "platform", string(release.PlatformAndroid), "Target platform (android or ios)")
	cmd.Flags().StringVar(&flavorFlag, "flavor", "", "Project flavor to publish")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}
