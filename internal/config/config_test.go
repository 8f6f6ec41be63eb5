package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"JIRA_DOMAIN", "JIRA_EMAIL", "JIRA_TOKEN", "JIRA_MAX_RESULTS", "JIRA_EPIC_LABELS"} {
		t.Setenv(k, "")
		os.Unsetenv(k) // nolint:errcheck
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		require.NoError(t, err)
		assert.Equal(t, DefaultMaxResults, cfg.MaxResults)
		assert.Empty(t, cfg.Email)
		assert.Empty(t, cfg.Labels)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		content := "domain: acme.atlassian.net\nemail: me@acme.com\ntoken: abc\nmaxResults: 20\nlabels:\n  - Epic\n  - Feature\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, Config{
			Domain:     "acme.atlassian.net",
			Email:      "me@acme.com",
			Token:      "abc",
			MaxResults: 20,
			Labels:     []string{"Epic", "Feature"},
		}, cfg)
	})

	t.Run("env vars override file", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("email: file@acme.com\ntoken: file\n"), 0600))
		t.Setenv("JIRA_EMAIL", "env@acme.com")
		t.Setenv("JIRA_MAX_RESULTS", "7")
		t.Setenv("JIRA_EPIC_LABELS", "Épopée, Epic")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "env@acme.com", cfg.Email)
		assert.Equal(t, "file", cfg.Token)
		assert.Equal(t, 7, cfg.MaxResults)
		assert.Equal(t, []string{"Épopée", "Epic"}, cfg.Labels)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("email: [unterminated\n"), 0600))

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Email: "me@acme.com", Token: "abc", MaxResults: 10}
	assert.NoError(t, valid.Validate())

	noEmail := valid
	noEmail.Email = ""
	assert.ErrorContains(t, noEmail.Validate(), "email is required")

	noToken := valid
	noToken.Token = ""
	assert.ErrorContains(t, noToken.Validate(), "token is required")

	badMax := valid
	badMax.MaxResults = 0
	assert.ErrorContains(t, badMax.Validate(), "max results must be positive")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	in := Config{Email: "me@acme.com", Token: "abc", MaxResults: 50, Labels: []string{"Epic"}}

	require.NoError(t, Save(in, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
