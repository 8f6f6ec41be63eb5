package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dt-pm-tools/jira-epics/internal/display"
	"github.com/dt-pm-tools/jira-epics/internal/jira"
	"github.com/dt-pm-tools/jira-epics/internal/markdown"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	outputDir    string
)

func init() {
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json, or md")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "with --format md, write <dir>/<KEY>.md per epic instead of stdout")
}

func runEpics(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "text", "json", "md":
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or md)", outputFormat)
	}
	if outputDir != "" && outputFormat != "md" {
		return fmt.Errorf("--output-dir requires --format md")
	}

	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}

	client, logger := newClient(cmd, s)
	discoverer := jira.NewDiscoverer(client,
		jira.WithLabels(s.Labels...),
		jira.WithMaxResults(s.MaxResults),
		jira.WithDiscoveryLogger(logger),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Searching epics in %s on %s...\n", s.ProjectKey, s.BaseURL)

	result, err := discoverer.Discover(cmd.Context(), s.ProjectKey)
	if err != nil {
		return fmt.Errorf("searching epics in %s: %w", s.ProjectKey, err)
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		return display.JSON(out, result)

	case "md":
		opts := markdown.Options{BaseURL: s.BaseURL, ProjectKey: s.ProjectKey}
		if outputDir != "" {
			return writeEpicFiles(cmd, result, opts)
		}
		md, err := markdown.MarshalList(result, opts)
		if err != nil {
			return fmt.Errorf("converting to markdown: %w", err)
		}
		fmt.Fprint(out, md)
		return nil
	}

	printer := display.NewPrinter(out, useColor(out))
	fmt.Fprintf(out, "JIRA URL: %s\nProject key: %s\n", s.BaseURL, s.ProjectKey)
	printer.Epics(result)

	if debug {
		diag, err := client.Diagnose(cmd.Context(), s.ProjectKey)
		if err != nil {
			printer.Warn("Error while fetching diagnostics: %v", err)
			return nil
		}
		printer.Diagnostics(diag)
	}
	return nil
}

func writeEpicFiles(cmd *cobra.Command, result *jira.SearchResult, opts markdown.Options) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, epic := range result.Epics() {
		md, err := markdown.MarshalEpic(epic, opts)
		if err != nil {
			return fmt.Errorf("converting %s to markdown: %w", epic.Key, err)
		}

		filename := filepath.Join(outputDir, sanitizeFilename(epic.Key)+".md")
		if err := os.WriteFile(filename, []byte(md), 0644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", filename)
	}

	if len(result.Issues) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No epics found.")
	}
	return nil
}

// sanitizeFilename creates a safe filename from an issue key.
func sanitizeFilename(key string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9\-_.]+`)
	safe := strings.Trim(re.ReplaceAllString(key, "-"), "-.")
	if safe == "" {
		safe = "epic"
	}
	return safe
}
