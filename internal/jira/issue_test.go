package jira

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssue(t *testing.T) {
	t.Parallel()

	t.Run("full record", func(t *testing.T) {
		t.Parallel()

		raw := json.RawMessage(`{
			"key": "PROJ-7",
			"fields": {
				"summary": "Onboarding flow",
				"status": {"name": "In Progress"},
				"issuetype": {"name": "Epic"},
				"assignee": {"displayName": "Kim Lee"},
				"reporter": {"displayName": "Sam Park"},
				"created": "2025-01-15T10:00:00.000+0900",
				"updated": "2025-01-16T12:00:00.000+0900",
				"description": {"type": "doc", "version": 1, "content": [{"type": "paragraph", "content": [{"type": "text", "text": "Hello"}]}]}
			}
		}`)

		issue := ParseIssue(raw)

		assert.Equal(t, "PROJ-7", issue.Key)
		assert.Equal(t, "Onboarding flow", issue.Summary)
		assert.Equal(t, "In Progress", issue.Status)
		assert.Equal(t, "Epic", issue.IssueType)
		assert.Equal(t, "Kim Lee", issue.Assignee)
		assert.Equal(t, "Sam Park", issue.Reporter)
		assert.Equal(t, "2025-01-15T10:00:00.000+0900", issue.Created)
		assert.Equal(t, "2025-01-16T12:00:00.000+0900", issue.Updated)
		require.NotNil(t, issue.Description)
		assert.Equal(t, "doc", issue.Description.Type)
		assert.Equal(t, "Hello", issue.Description.Content[0].Content[0].Text)
	})

	t.Run("missing people fall back to placeholders", func(t *testing.T) {
		t.Parallel()

		issue := ParseIssue(json.RawMessage(`{"key":"PROJ-8","fields":{"summary":"x"}}`))

		assert.Equal(t, Unassigned, issue.Assignee)
		assert.Equal(t, UnknownPerson, issue.Reporter)
		assert.Equal(t, NotAvailable, issue.Status)
		assert.Equal(t, NotAvailable, issue.Created)
		assert.Nil(t, issue.Description)
	})

	t.Run("null people fall back to placeholders", func(t *testing.T) {
		t.Parallel()

		issue := ParseIssue(json.RawMessage(`{"key":"PROJ-9","fields":{"assignee":null,"reporter":null,"status":null,"description":null}}`))

		assert.Equal(t, Unassigned, issue.Assignee)
		assert.Equal(t, UnknownPerson, issue.Reporter)
		assert.Equal(t, NotAvailable, issue.Status)
		assert.Nil(t, issue.Description)
	})

	t.Run("garbage never panics", func(t *testing.T) {
		t.Parallel()

		issue := ParseIssue(json.RawMessage(`[]`))

		assert.Equal(t, NotAvailable, issue.Key)
		assert.Equal(t, Unassigned, issue.Assignee)
	})
}

func TestSearchResultEpics(t *testing.T) {
	t.Parallel()

	res := &SearchResult{Issues: []json.RawMessage{
		json.RawMessage(`{"key":"A-1"}`),
		json.RawMessage(`{"key":"A-2"}`),
	}}

	epics := res.Epics()
	require.Len(t, epics, 2)
	assert.Equal(t, "A-1", epics[0].Key)
	assert.Equal(t, "A-2", epics[1].Key)
	assert.Empty(t, EmptyResult().Epics())
}

func TestSearchQueryJQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `project = "PROJ" AND issuetype = "エピック"`, SearchQuery{ProjectKey: "PROJ", IssueType: "エピック"}.JQL())
	assert.Equal(t, `project = "P" AND issuetype = "say \"hi\""`, SearchQuery{ProjectKey: "P", IssueType: `say "hi"`}.JQL())
}
