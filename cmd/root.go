package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dt-pm-tools/jira-epics/internal/config"
	"github.com/dt-pm-tools/jira-epics/internal/endpoint"
	"github.com/dt-pm-tools/jira-epics/internal/jira"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	maxResults int
	debug      bool
	labelFlags []string
	version    = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "jira-epics [email api-token] <project-key> [domain]",
	Short: "List the Epics of a JIRA project",
	Long: `Lists the Epic issues of a JIRA Cloud project.

Epic is a localized issue type name, so several labels are tried in order
(by default "エピック", then "Epic"). If none of them matches anything, the
instance's issue types are inspected and the first one that looks like an
Epic is searched once.

Credentials can be passed as arguments or configured with 'jira-epics config'
(or JIRA_EMAIL / JIRA_TOKEN / JIRA_DOMAIN). Without a domain, it is guessed
from the email: user@acme.com -> https://acme.atlassian.net.

Examples:
  jira-epics me@acme.com $TOKEN PROJ
  jira-epics me@acme.com $TOKEN PROJ acme-dev.atlassian.net --max-results 20
  jira-epics PROJ --format md --output-dir ./epics`,
	Version:      version,
	Args:         cobra.RangeArgs(1, 4),
	SilenceUsage: true,
	RunE:         runEpics,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jira-epics.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace requests, responses and search decisions on stderr")
	rootCmd.Flags().IntVar(&maxResults, "max-results", config.DefaultMaxResults, "maximum number of epics to fetch")
	rootCmd.Flags().StringArrayVar(&labelFlags, "label", nil, "issue type label to try, in order (repeatable; replaces the defaults)")
}

// settings is everything a command needs to talk to JIRA.
type settings struct {
	BaseURL    string
	Credential string
	ProjectKey string
	MaxResults int
	Labels     []string
}

// resolveSettings merges positional arguments over the loaded config.
// Accepted forms: <project>, <email> <token> <project>, and
// <email> <token> <project> <domain>.
func resolveSettings(cfg config.Config, args []string) (settings, error) {
	var project string
	switch len(args) {
	case 1:
		project = args[0]
	case 3, 4:
		cfg.Email, cfg.Token, project = args[0], args[1], args[2]
		if len(args) == 4 {
			cfg.Domain = args[3]
		}
	default:
		return settings{}, fmt.Errorf("expected <project-key> or <email> <api-token> <project-key> [domain], got %d arguments", len(args))
	}
	if project == "" {
		return settings{}, fmt.Errorf("project key must not be empty")
	}

	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid config: %w\nPass credentials as arguments or run 'jira-epics config'", err)
	}

	baseURL, err := endpoint.Resolve(cfg.Domain, cfg.Email)
	if err != nil {
		return settings{}, fmt.Errorf("resolving JIRA URL: %w (pass the domain explicitly)", err)
	}

	return settings{
		BaseURL:    baseURL,
		Credential: endpoint.Credential(cfg.Email, cfg.Token),
		ProjectKey: project,
		MaxResults: cfg.MaxResults,
		Labels:     cfg.Labels,
	}, nil
}

// loadSettings loads config, applies flag overrides, and resolves args.
func loadSettings(cmd *cobra.Command, args []string) (settings, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return settings{}, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("max-results") {
		cfg.MaxResults = maxResults
	}
	if len(labelFlags) > 0 {
		cfg.Labels = labelFlags
	}
	return resolveSettings(cfg, args)
}

func newClient(cmd *cobra.Command, s settings) (*jira.Client, *slog.Logger) {
	logger := newLogger(cmd.ErrOrStderr())
	return jira.NewClient(s.BaseURL, s.Credential, jira.WithLogger(logger)), logger
}

func newLogger(w io.Writer) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// useColor is true when w is a terminal and NO_COLOR is not set.
func useColor(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
