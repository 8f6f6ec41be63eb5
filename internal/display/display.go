// Package display renders Epic search results for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dt-pm-tools/jira-epics/internal/jira"
	"github.com/dt-pm-tools/jira-epics/internal/markdown"
	"github.com/fatih/color"
)

const (
	ruleWidth     = 80
	excerptLength = 100
)

// Printer writes human-readable output. Colors are off unless enabled.
type Printer struct {
	w      io.Writer
	header *color.Color
	key    *color.Color
	dim    *color.Color
	warn   *color.Color
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:      w,
		header: color.New(color.FgCyan, color.Bold),
		key:    color.New(color.FgYellow, color.Bold),
		dim:    color.New(color.FgHiBlack),
		warn:   color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.header, p.key, p.dim, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Epics prints the numbered Epic listing.
func (p *Printer) Epics(result *jira.SearchResult) {
	epics := result.Epics()

	if result.HasMore() {
		fmt.Fprintf(p.w, "\n%s\n\n", p.header.Sprintf("Epics (showing %d, more available)", len(epics)))
	} else {
		fmt.Fprintf(p.w, "\n%s\n\n", p.header.Sprintf("Epics (total: %d)", len(epics)))
	}
	fmt.Fprintln(p.w, strings.Repeat("=", ruleWidth))

	if len(epics) == 0 {
		fmt.Fprintln(p.w, "No epics found.")
		return
	}

	for i, e := range epics {
		fmt.Fprintf(p.w, "\n[%d] %s: %s\n", i+1, p.key.Sprint(e.Key), e.Summary)
		p.field("Status", e.Status)
		p.field("Assignee", e.Assignee)
		p.field("Reporter", e.Reporter)
		p.field("Created", e.Created)
		p.field("Updated", e.Updated)
		if excerpt := markdown.Excerpt(e.Description, excerptLength); excerpt != "" {
			p.field("Summary", excerpt)
		}
		fmt.Fprintln(p.w, p.dim.Sprint(strings.Repeat("-", ruleWidth)))
	}
}

// Diagnostics prints what the project and instance expose, marking the issue
// types the fallback search would consider an Epic.
func (p *Printer) Diagnostics(d *jira.Diagnostics) {
	fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("=", ruleWidth))
	if d.Project != nil {
		p.field("Project name", d.Project.Name)
		p.field("Project key", d.Project.Key)
	}

	if len(d.Statuses) > 0 {
		fmt.Fprintf(p.w, "\n%s\n", p.header.Sprint("Issue types used in this project:"))
		for _, s := range d.Statuses {
			names := make([]string, 0, len(s.Statuses))
			for _, st := range s.Statuses {
				names = append(names, st.Name)
			}
			fmt.Fprintf(p.w, "  - %s (statuses: %s)\n", s.Name, strings.Join(names, ", "))
		}
	}

	fmt.Fprintf(p.w, "\n%s\n", p.header.Sprint("Available issue types:"))
	for _, t := range d.IssueTypes {
		marker := ""
		if t.LooksLikeEpic() {
			marker = " " + p.key.Sprint("<- epic candidate")
		}
		fmt.Fprintf(p.w, "  - %s (id: %s, hierarchy level: %d)%s\n", t.Name, t.ID, t.HierarchyLevel, marker)
	}
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.warn.Sprintf(format, args...))
}

func (p *Printer) field(name, value string) {
	fmt.Fprintf(p.w, "    %s %s\n", p.dim.Sprint(name+":"), value)
}

// JSON writes the search result as indented JSON, issues exactly as Jira
// returned them.
func JSON(w io.Writer, result *jira.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}
