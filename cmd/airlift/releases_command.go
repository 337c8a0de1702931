package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airlift/internal/history"
	"airlift/internal/project"
	"airlift/internal/release"
	"airlift/internal/services"
)

func newReleasesCommand(ctx *commandContext) *cobra.Command {
	var localFlag bool
	var flavorFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List releases for the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}
			proj, err := project.Load(projectDir)
			if err != nil {
				if errors.Is(err, project.ErrNotInitialized) {
					return services.Wrap(services.ErrPrecondition, "releases", project.FileName, "run 'airlift init' first", err)
				}
				return err
			}
			appID, err := proj.ResolveAppID(flavorFlag)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "releases", project.FileName, "", err)
			}

			if localFlag {
				return listLocalReleases(cmd, ctx, appID, limitFlag)
			}
			return listRemoteReleases(cmd, ctx, appID)
		},
	}

	cmd.Flags().BoolVar(&localFlag, "local", false, "List publishes recorded on this machine instead of asking the service")
	cmd.Flags().StringVar(&flavorFlag, "flavor", "", "Project flavor to list releases for")
	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of local history entries to show")
	return cmd
}

func listRemoteReleases(cmd *cobra.Command, ctx *commandContext, appID string) error {
	api, err := ctx.apiClient()
	if err != nil {
		return err
	}
	releases, err := api.ListReleases(cmd.Context(), appID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(releases) == 0 {
		fmt.Fprintln(out, "No releases found.")
		return nil
	}

	rows := make([][]string, 0, len(releases))
	for _, rel := range releases {
		rows = append(rows, []string{
			rel.Version,
			string(rel.StatusFor(release.PlatformAndroid)),
			string(rel.StatusFor(release.PlatformIOS)),
			shortRevision(rel.FlutterRevision),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Version", "Android", "iOS", "Flutter revision"},
		rows,
		nil,
	))
	return nil
}

func listLocalReleases(cmd *cobra.Command, ctx *commandContext, appID string, limit int) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), appID, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No local publish history.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.PublishedAt.Local().Format("2006-01-02 15:04"),
			entry.Version,
			entry.Platform.Label(),
			shortRevision(entry.FlutterRevision),
			fmt.Sprintf("%d", entry.ReleaseID),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Published", "Version", "Platform", "Flutter revision", "Release ID"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func shortRevision(revision string) string {
	if len(revision) > 10 {
		return revision[:10]
	}
	return revision
}
