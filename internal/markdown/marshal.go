package markdown

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dt-pm-tools/jira-epics/internal/jira"
	"gopkg.in/yaml.v3"
)

// Human-readable descriptions for ADF nodes that have no markdown form.
var omittedDescriptions = map[string]string{
	"mediaSingle":          "Inline image",
	"mediaGroup":           "Image group",
	"media":                "Attachment",
	"panel":                "Info/warning panel",
	"expand":               "Expand/collapse section",
	"nestedExpand":         "Nested expand section",
	"extension":            "JIRA extension",
	"bodiedExtension":      "JIRA macro",
	"inlineExtension":      "Inline JIRA macro",
	"multiBodiedExtension": "Multi-body JIRA macro",
	"layoutSection":        "Layout columns",
	"layoutColumn":         "Layout column",
	"decisionList":         "Decision list",
	"decisionItem":         "Decision item",
	"taskList":             "Task checklist",
	"taskItem":             "Task checkbox",
	"status":               "Status lozenge",
	"date":                 "Date",
	"placeholder":          "Placeholder",
}

// MarshalEpic converts one Epic into a markdown document with YAML frontmatter.
func MarshalEpic(issue jira.Issue, opts Options) (string, error) {
	var b strings.Builder

	fm := epicFrontmatter{
		Key:      issue.Key,
		Title:    issue.Summary,
		Status:   issue.Status,
		Type:     issue.IssueType,
		Assignee: issue.Assignee,
		Reporter: issue.Reporter,
		Created:  issue.Created,
		Updated:  issue.Updated,
		URL:      browseURL(opts.BaseURL, issue.Key),
		Synced:   syncedAt(opts),
	}
	if err := writeFrontmatter(&b, fm); err != nil {
		return "", err
	}

	b.WriteString(fmt.Sprintf("# %s: %s\n\n", issue.Key, issue.Summary))
	writeDescription(&b, issue, "##")

	return b.String(), nil
}

// MarshalList converts a whole search result into a single markdown document.
// Each Epic becomes a second-level section.
func MarshalList(result *jira.SearchResult, opts Options) (string, error) {
	epics := result.Epics()

	keys := make([]string, 0, len(epics))
	for _, e := range epics {
		keys = append(keys, e.Key)
	}

	var b strings.Builder
	fm := listFrontmatter{
		Project:  opts.ProjectKey,
		Count:    len(epics),
		Complete: !result.HasMore(),
		Epics:    keys,
		Synced:   syncedAt(opts),
	}
	if err := writeFrontmatter(&b, fm); err != nil {
		return "", err
	}

	if opts.ProjectKey != "" {
		b.WriteString(fmt.Sprintf("# Epics in %s\n\n", opts.ProjectKey))
	} else {
		b.WriteString("# Epics\n\n")
	}

	if len(epics) == 0 {
		b.WriteString("(No epics found)\n")
		return b.String(), nil
	}

	for _, e := range epics {
		b.WriteString(fmt.Sprintf("## %s: %s\n\n", e.Key, e.Summary))
		b.WriteString(fmt.Sprintf("- Status: %s\n", e.Status))
		b.WriteString(fmt.Sprintf("- Assignee: %s\n", e.Assignee))
		b.WriteString(fmt.Sprintf("- Reporter: %s\n", e.Reporter))
		b.WriteString(fmt.Sprintf("- Created: %s\n", FormatDate(e.Created)))
		b.WriteString(fmt.Sprintf("- Updated: %s\n", FormatDate(e.Updated)))
		if u := browseURL(opts.BaseURL, e.Key); u != "" {
			b.WriteString(fmt.Sprintf("- Link: %s\n", u))
		}
		b.WriteString("\n")
		writeDescription(&b, e, "###")
	}

	return b.String(), nil
}

// Excerpt renders an ADF description as a single plain line of at most
// maxRunes runes. It returns "" for a nil or empty description.
func Excerpt(node *jira.ADFNode, maxRunes int) string {
	text := strings.Join(strings.Fields(renderADF(node)), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}

func writeFrontmatter(b *strings.Builder, fm any) error {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("marshalling frontmatter: %w", err)
	}
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	return nil
}

func writeDescription(b *strings.Builder, issue jira.Issue, heading string) {
	b.WriteString(heading + " Description\n\n")
	desc := renderADF(issue.Description)
	if strings.TrimSpace(desc) == "" {
		b.WriteString("(No description)\n\n")
		return
	}
	b.WriteString(desc)
	if !strings.HasSuffix(desc, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func browseURL(baseURL, key string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || key == "" || key == jira.NotAvailable {
		return ""
	}
	return fmt.Sprintf("%s/browse/%s", baseURL, key)
}

func syncedAt(opts Options) string {
	t := opts.Synced
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

// renderADF converts an ADF node tree to markdown.
func renderADF(node *jira.ADFNode) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	renderNode(&b, node, "")
	return b.String()
}

func renderNode(b *strings.Builder, node *jira.ADFNode, listPrefix string) {
	switch node.Type {
	case "doc":
		renderChildren(b, node, "")

	case "paragraph":
		renderInlineChildren(b, node)
		b.WriteString("\n\n")

	case "heading":
		level := 2 // default
		if l, ok := node.Attrs["level"]; ok {
			if lf, ok := l.(float64); ok {
				level = int(lf)
			}
		}
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		renderInlineChildren(b, node)
		b.WriteString("\n\n")

	case "bulletList":
		for _, child := range node.Content {
			renderNode(b, &child, "- ")
		}

	case "orderedList":
		for i, child := range node.Content {
			renderNode(b, &child, fmt.Sprintf("%d. ", i+1))
		}

	case "listItem":
		// A list item may contain paragraphs or nested lists.
		for i, child := range node.Content {
			if i == 0 && child.Type == "paragraph" {
				b.WriteString(listPrefix)
				renderInlineChildren(b, &child)
				b.WriteString("\n")
			} else if child.Type == "bulletList" || child.Type == "orderedList" {
				indented := strings.Repeat(" ", len(listPrefix))
				for j, nested := range child.Content {
					prefix := "- "
					if child.Type == "orderedList" {
						prefix = fmt.Sprintf("%d. ", j+1)
					}
					renderNode(b, &nested, indented+prefix)
				}
			} else {
				renderNode(b, &child, listPrefix)
			}
		}

	case "codeBlock":
		b.WriteString("```")
		b.WriteString(stringAttr(node.Attrs, "language"))
		b.WriteString("\n")
		for _, child := range node.Content {
			b.WriteString(child.Text)
		}
		b.WriteString("\n```\n\n")

	case "blockquote":
		var inner strings.Builder
		renderChildren(&inner, node, "")
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")

	case "rule":
		b.WriteString("---\n\n")

	case "table":
		renderTable(b, node)

	case "text":
		b.WriteString(applyMarks(node.Text, node.Marks))

	case "hardBreak":
		b.WriteString("\n")

	case "mention":
		b.WriteString("@")
		b.WriteString(stringAttr(node.Attrs, "text"))

	case "inlineCard":
		b.WriteString(fmt.Sprintf("[link](%s)", stringAttr(node.Attrs, "url")))

	case "emoji":
		text := stringAttr(node.Attrs, "text")
		if text == "" {
			text = stringAttr(node.Attrs, "shortName")
		}
		b.WriteString(text)

	default:
		if desc, ok := omittedDescriptions[node.Type]; ok {
			b.WriteString(fmt.Sprintf("<!-- %s omitted -->\n\n", desc))
			return
		}
		// Best effort: try to render children
		renderChildren(b, node, "")
	}
}

func renderChildren(b *strings.Builder, node *jira.ADFNode, listPrefix string) {
	for i := range node.Content {
		renderNode(b, &node.Content[i], listPrefix)
	}
}

func renderInlineChildren(b *strings.Builder, node *jira.ADFNode) {
	for i := range node.Content {
		renderNode(b, &node.Content[i], "")
	}
}

func renderTable(b *strings.Builder, node *jira.ADFNode) {
	var rows [][]string
	for _, row := range node.Content {
		if row.Type != "tableRow" {
			continue
		}
		cells := make([]string, 0, len(row.Content))
		for _, cell := range row.Content {
			var cellBuf strings.Builder
			for i := range cell.Content {
				renderInlineChildren(&cellBuf, &cell.Content[i])
			}
			cells = append(cells, strings.TrimSpace(cellBuf.String()))
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(padRow(cells, maxCols), " | "))
		b.WriteString(" |\n")
	}

	writeRow(rows[0])
	sep := make([]string, maxCols)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range rows[1:] {
		writeRow(row)
	}
	b.WriteString("\n")
}

func padRow(row []string, cols int) []string {
	for len(row) < cols {
		row = append(row, "")
	}
	return row
}

func applyMarks(text string, marks []jira.ADFMark) string {
	for _, mark := range marks {
		switch mark.Type {
		case "strong":
			text = "**" + text + "**"
		case "em":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "link":
			text = fmt.Sprintf("[%s](%s)", text, stringAttr(mark.Attrs, "href"))
		case "underline":
			// Markdown doesn't support underline natively; use emphasis
			text = "_" + text + "_"
		}
	}
	return text
}

func stringAttr(attrs map[string]any, key string) string {
	if v, ok := attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// FormatDate shortens a Jira timestamp to YYYY-MM-DD. Values it cannot parse
// are returned unchanged.
func FormatDate(isoDate string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000-0700", isoDate)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05.000Z0700", isoDate)
		if err != nil {
			t, err = time.Parse(time.RFC3339, isoDate)
			if err != nil {
				return isoDate
			}
		}
	}
	return t.Format("2006-01-02")
}
