// Package jira talks to the Jira Cloud REST API v3 and implements Epic
// discovery on top of it.
package jira

import (
	"encoding/json"
	"strings"
)

// EpicFields is the field set requested for every Epic search.
var EpicFields = []string{
	"summary",
	"status",
	"description",
	"created",
	"updated",
	"assignee",
	"reporter",
	"issuetype",
}

// SearchQuery is one probe: issues of a single type in a single project.
type SearchQuery struct {
	ProjectKey string
	IssueType  string
	MaxResults int
	Fields     []string
}

// JQL renders the query as a JQL string.
func (q SearchQuery) JQL() string {
	return `project = "` + quoteJQL(q.ProjectKey) + `" AND issuetype = "` + quoteJQL(q.IssueType) + `"`
}

func quoteJQL(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// SearchRequest is the body for POST /rest/api/3/search/jql.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// SearchResult is the response from POST /rest/api/3/search/jql. Issues are
// kept exactly as Jira returned them; use Epics for the normalized view.
type SearchResult struct {
	Issues        []json.RawMessage `json:"issues"`
	IsLast        bool              `json:"isLast"`
	NextPageToken *string           `json:"nextPageToken"`
}

// EmptyResult is the terminal result when no Epics could be found.
func EmptyResult() *SearchResult {
	return &SearchResult{
		Issues:        []json.RawMessage{},
		IsLast:        true,
		NextPageToken: nil,
	}
}

// HasMore reports whether Jira indicated further pages.
func (r *SearchResult) HasMore() bool {
	return !r.IsLast && r.NextPageToken != nil && *r.NextPageToken != ""
}

// Epics returns the normalized issues in response order.
func (r *SearchResult) Epics() []Issue {
	issues := make([]Issue, 0, len(r.Issues))
	for _, raw := range r.Issues {
		issues = append(issues, ParseIssue(raw))
	}
	return issues
}

// IssueTypeDescriptor is an entry from GET /rest/api/3/issuetype.
type IssueTypeDescriptor struct {
	Name           string
	ID             string
	HierarchyLevel int
}

// LooksLikeEpic is true when the name contains "epic" in any case, or the
// type sits on hierarchy level 1 (the level Jira reserves for Epics).
func (t IssueTypeDescriptor) LooksLikeEpic() bool {
	return strings.Contains(strings.ToLower(t.Name), "epic") || t.HierarchyLevel == 1
}

// FirstEpicType returns the name of the first type that looks like an Epic,
// in the order Jira listed them.
func FirstEpicType(types []IssueTypeDescriptor) (string, bool) {
	for _, t := range types {
		if t.LooksLikeEpic() {
			return t.Name, true
		}
	}
	return "", false
}

// Project is the subset of a Jira project used for diagnostics.
type Project struct {
	ID   string
	Key  string
	Name string
}

// IssueTypeStatuses is one entry from GET /rest/api/3/project/{key}/statuses.
type IssueTypeStatuses struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subtask  bool     `json:"subtask"`
	Statuses []Status `json:"statuses"`
}

// Status represents a JIRA status.
type Status struct {
	Name string `json:"name"`
}

// ADFNode represents a node in the Atlassian Document Format.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
}

// ADFMark represents an inline formatting mark in ADF.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}
