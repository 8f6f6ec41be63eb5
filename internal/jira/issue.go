package jira

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Placeholders shown when a field is missing from the response.
const (
	Unassigned    = "unassigned"
	UnknownPerson = "unknown"
	NotAvailable  = "N/A"
)

// Issue is the display view of one Epic.
type Issue struct {
	Key         string
	Summary     string
	Status      string
	IssueType   string
	Assignee    string
	Reporter    string
	Created     string
	Updated     string
	Description *ADFNode
}

// ParseIssue extracts an Issue from a raw search record. It never fails:
// anything absent, null, or malformed falls back to a placeholder.
func ParseIssue(raw json.RawMessage) Issue {
	doc := gjson.ParseBytes(raw)

	issue := Issue{
		Key:       stringOr(doc, "key", NotAvailable),
		Summary:   stringOr(doc, "fields.summary", NotAvailable),
		Status:    stringOr(doc, "fields.status.name", NotAvailable),
		IssueType: stringOr(doc, "fields.issuetype.name", NotAvailable),
		Assignee:  stringOr(doc, "fields.assignee.displayName", Unassigned),
		Reporter:  stringOr(doc, "fields.reporter.displayName", UnknownPerson),
		Created:   stringOr(doc, "fields.created", NotAvailable),
		Updated:   stringOr(doc, "fields.updated", NotAvailable),
	}

	if desc := doc.Get("fields.description"); desc.IsObject() {
		var node ADFNode
		if err := json.Unmarshal([]byte(desc.Raw), &node); err == nil {
			issue.Description = &node
		}
	}

	return issue
}

func stringOr(doc gjson.Result, path, fallback string) string {
	v := doc.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return fallback
	}
	return v.String()
}
