package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultMaxResults is the page size used when nothing else is configured.
const DefaultMaxResults = 100

// Config holds JIRA connection settings and Epic search defaults.
type Config struct {
	Domain     string   `yaml:"domain,omitempty"     mapstructure:"domain"`
	Email      string   `yaml:"email"                mapstructure:"email"`
	Token      string   `yaml:"token"                mapstructure:"token"`
	MaxResults int      `yaml:"maxResults,omitempty" mapstructure:"maxResults"`
	Labels     []string `yaml:"labels,omitempty"     mapstructure:"labels"`
}

// DefaultPath returns the default config file path (~/.jira-epics.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jira-epics.yaml"
	}
	return filepath.Join(home, ".jira-epics.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path. A missing file is not an
// error.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetDefault("maxResults", DefaultMaxResults)

	// Env var overrides
	_ = v.BindEnv("domain", "JIRA_DOMAIN")
	_ = v.BindEnv("email", "JIRA_EMAIL")
	_ = v.BindEnv("token", "JIRA_TOKEN")
	_ = v.BindEnv("maxResults", "JIRA_MAX_RESULTS")
	_ = v.BindEnv("labels", "JIRA_EPIC_LABELS")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only ignore file-not-found; parse errors are real
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	// JIRA_EPIC_LABELS arrives as a single comma-separated string.
	cfg.Labels = splitLabels(cfg.Labels)

	return cfg, nil
}

func splitLabels(in []string) []string {
	var out []string
	for _, item := range in {
		for _, label := range strings.Split(item, ",") {
			if label = strings.TrimSpace(label); label != "" {
				out = append(out, label)
			}
		}
	}
	return out
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("JIRA email is required (pass it as an argument, or set it in the config file or JIRA_EMAIL env var)")
	}
	if c.Token == "" {
		return fmt.Errorf("JIRA token is required (pass it as an argument, or set it in the config file or JIRA_TOKEN env var)")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", c.MaxResults)
	}
	return nil
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
