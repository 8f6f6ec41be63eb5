package markdown

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dt-pm-tools/jira-epics/internal/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var synced = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func docWith(nodes ...jira.ADFNode) *jira.ADFNode {
	return &jira.ADFNode{Type: "doc", Content: nodes}
}

func para(text string, marks ...jira.ADFMark) jira.ADFNode {
	return jira.ADFNode{Type: "paragraph", Content: []jira.ADFNode{{Type: "text", Text: text, Marks: marks}}}
}

func frontmatterOf(t *testing.T, doc string) map[string]any {
	t.Helper()

	require.True(t, strings.HasPrefix(doc, "---\n"))
	end := strings.Index(doc[4:], "\n---\n")
	require.GreaterOrEqual(t, end, 0)

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc[4:4+end]), &fm))
	return fm
}

func TestMarshalEpic(t *testing.T) {
	t.Parallel()

	issue := jira.Issue{
		Key:         "PROJ-1",
		Summary:     "Checkout: revamp",
		Status:      "In Progress",
		IssueType:   "Epic",
		Assignee:    jira.Unassigned,
		Reporter:    "Sam Park",
		Created:     "2025-01-15T10:00:00.000+0900",
		Updated:     "2025-01-16T12:00:00.000+0900",
		Description: docWith(para("Ship it", jira.ADFMark{Type: "strong"})),
	}

	out, err := MarshalEpic(issue, Options{BaseURL: "https://acme.atlassian.net/", Synced: synced})
	require.NoError(t, err)

	fm := frontmatterOf(t, out)
	assert.Equal(t, "PROJ-1", fm["key"])
	assert.Equal(t, "Checkout: revamp", fm["title"])
	assert.Equal(t, "unassigned", fm["assignee"])
	assert.Equal(t, "https://acme.atlassian.net/browse/PROJ-1", fm["url"])
	assert.Equal(t, "2025-03-01T09:30:00Z", fm["synced"])

	assert.Contains(t, out, "# PROJ-1: Checkout: revamp\n\n")
	assert.Contains(t, out, "## Description\n\n**Ship it**\n")
}

func TestMarshalEpicWithoutDescription(t *testing.T) {
	t.Parallel()

	out, err := MarshalEpic(jira.Issue{Key: "PROJ-2", Summary: "Empty"}, Options{Synced: synced})
	require.NoError(t, err)

	assert.Contains(t, out, "(No description)")
	fm := frontmatterOf(t, out)
	assert.Equal(t, "", fm["url"])
}

func TestMarshalList(t *testing.T) {
	t.Parallel()

	t.Run("lists every epic in order", func(t *testing.T) {
		t.Parallel()

		token := "next"
		result := &jira.SearchResult{
			Issues: []json.RawMessage{
				json.RawMessage(`{"key":"PROJ-1","fields":{"summary":"One","status":{"name":"To Do"},"created":"2025-01-15T10:00:00.000+0900"}}`),
				json.RawMessage(`{"key":"PROJ-2","fields":{"summary":"Two","assignee":{"displayName":"Kim"}}}`),
			},
			IsLast:        false,
			NextPageToken: &token,
		}

		out, err := MarshalList(result, Options{BaseURL: "https://acme.atlassian.net", ProjectKey: "PROJ", Synced: synced})
		require.NoError(t, err)

		fm := frontmatterOf(t, out)
		assert.Equal(t, "PROJ", fm["project"])
		assert.Equal(t, 2, fm["count"])
		assert.Equal(t, false, fm["complete"])
		assert.Equal(t, []any{"PROJ-1", "PROJ-2"}, fm["epics"])

		assert.Contains(t, out, "# Epics in PROJ\n")
		first := strings.Index(out, "## PROJ-1: One")
		second := strings.Index(out, "## PROJ-2: Two")
		require.GreaterOrEqual(t, first, 0)
		assert.Greater(t, second, first)
		assert.Contains(t, out, "- Created: 2025-01-15\n")
		assert.Contains(t, out, "- Assignee: Kim\n")
		assert.Contains(t, out, "- Reporter: unknown\n")
		assert.Contains(t, out, "- Link: https://acme.atlassian.net/browse/PROJ-2\n")
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		out, err := MarshalList(jira.EmptyResult(), Options{Synced: synced})
		require.NoError(t, err)

		fm := frontmatterOf(t, out)
		assert.Equal(t, 0, fm["count"])
		assert.Equal(t, true, fm["complete"])
		assert.Contains(t, out, "(No epics found)")
	})
}

func TestRenderADF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		node     *jira.ADFNode
		expected string
	}{
		{name: "nil", node: nil, expected: ""},
		{
			name: "heading and marks",
			node: docWith(
				jira.ADFNode{Type: "heading", Attrs: map[string]any{"level": float64(3)}, Content: []jira.ADFNode{{Type: "text", Text: "Goals"}}},
				para("code", jira.ADFMark{Type: "code"}),
			),
			expected: "### Goals\n\n`code`\n\n",
		},
		{
			name: "bullet list",
			node: docWith(jira.ADFNode{Type: "bulletList", Content: []jira.ADFNode{
				{Type: "listItem", Content: []jira.ADFNode{para("a")}},
				{Type: "listItem", Content: []jira.ADFNode{para("b")}},
			}}),
			expected: "- a\n- b\n",
		},
		{
			name:     "link mark",
			node:     docWith(para("docs", jira.ADFMark{Type: "link", Attrs: map[string]any{"href": "https://x.test"}})),
			expected: "[docs](https://x.test)\n\n",
		},
		{
			name:     "unsupported node is noted",
			node:     docWith(jira.ADFNode{Type: "mediaSingle"}),
			expected: "<!-- Inline image omitted -->\n\n",
		},
		{
			name: "table",
			node: docWith(jira.ADFNode{Type: "table", Content: []jira.ADFNode{
				{Type: "tableRow", Content: []jira.ADFNode{
					{Type: "tableHeader", Content: []jira.ADFNode{para("h1")}},
					{Type: "tableHeader", Content: []jira.ADFNode{para("h2")}},
				}},
				{Type: "tableRow", Content: []jira.ADFNode{
					{Type: "tableCell", Content: []jira.ADFNode{para("v1")}},
				}},
			}}),
			expected: "| h1 | h2 |\n| --- | --- |\n| v1 |  |\n\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, renderADF(tt.node))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	node := docWith(para("First line."), para("Second   line with more words."))

	assert.Equal(t, "First line. Second line with more words.", Excerpt(node, 0))
	assert.Equal(t, "First line.…", Excerpt(node, 11))
	assert.Equal(t, "", Excerpt(nil, 10))
	assert.Equal(t, "エピック…", Excerpt(docWith(para("エピックの説明")), 4))
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2025-01-15", FormatDate("2025-01-15T10:00:00.000+0900"))
	assert.Equal(t, "2025-01-15", FormatDate("2025-01-15T10:00:00Z"))
	assert.Equal(t, "N/A", FormatDate("N/A"))
}
