package markdown

import "time"

// Options controls markdown export.
type Options struct {
	// BaseURL is the Jira instance URL, used for browse links.
	BaseURL string
	// ProjectKey is shown in the list frontmatter.
	ProjectKey string
	// Synced is the export timestamp; zero means now.
	Synced time.Time
}

// epicFrontmatter is the YAML header of an exported Epic.
type epicFrontmatter struct {
	Key      string `yaml:"key"`
	Title    string `yaml:"title"`
	Status   string `yaml:"status"`
	Type     string `yaml:"type"`
	Assignee string `yaml:"assignee"`
	Reporter string `yaml:"reporter"`
	Created  string `yaml:"created"`
	Updated  string `yaml:"updated"`
	URL      string `yaml:"url"`
	Synced   string `yaml:"synced"`
}

// listFrontmatter is the YAML header of an exported Epic list.
type listFrontmatter struct {
	Project  string   `yaml:"project,omitempty"`
	Count    int      `yaml:"count"`
	Complete bool     `yaml:"complete"`
	Epics    []string `yaml:"epics"`
	Synced   string   `yaml:"synced"`
}
