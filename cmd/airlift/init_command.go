package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airlift/internal/project"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var appIDFlag string
	var flavorsFlag map[string]string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create the project file for the current directory",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}

			proj := &project.Project{AppID: appIDFlag}
			if len(flavorsFlag) > 0 {
				proj.Flavors = flavorsFlag
			}
			if err := project.Write(dir, proj); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s for app %s\n", project.FileName, appIDFlag)
			fmt.Fprintln(out, "Run 'airlift login' next if you have not authenticated yet.")
			return nil
		},
	}

	cmd.Flags().StringVar(&appIDFlag, "app-id", "", "Application identifier assigned by the service (required)")
	cmd.Flags().StringToStringVar(&flavorsFlag, "flavor", nil, "Flavor to app id mapping, e.g. --flavor dev=app-dev-123")
	_ = cmd.MarkFlagRequired("app-id")
	return cmd
}
