package cmd

import (
	"fmt"

	"github.com/dt-pm-tools/jira-epics/internal/display"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types [email api-token] <project-key> [domain]",
	Short: "Show the project and the issue types of the instance",
	Long: `Prints the project name and key, the issue types used in the project with
their statuses, and every issue type of the instance with its id and hierarchy
level. Types that the fallback search would treat as an Epic are marked.

Use it to find the label to pass with --label when no epics are found.`,
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd, args)
		if err != nil {
			return err
		}

		client, _ := newClient(cmd, s)
		diag, err := client.Diagnose(cmd.Context(), s.ProjectKey)
		if err != nil {
			return fmt.Errorf("diagnosing %s: %w", s.ProjectKey, err)
		}

		out := cmd.OutOrStdout()
		display.NewPrinter(out, useColor(out)).Diagnostics(diag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
