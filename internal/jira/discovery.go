package jira

import (
	"context"
	"log/slog"
)

// DefaultMaxResults caps every Epic search.
const DefaultMaxResults = 100

// DefaultEpicLabels are tried in order. Jira localizes issue type names, so
// the Japanese label comes first and the English one second.
var DefaultEpicLabels = []string{"エピック", "Epic"}

// Searcher is the part of the Jira API Epic discovery needs. *Client
// implements it.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
	IssueTypes(ctx context.Context) ([]IssueTypeDescriptor, error)
}

// Discoverer finds the Epics of a project by probing candidate issue type
// labels and, when none match, by looking up the instance's issue types.
type Discoverer struct {
	searcher   Searcher
	labels     []string
	maxResults int
	logger     *slog.Logger
}

// DiscoverOption configures a Discoverer.
type DiscoverOption func(*Discoverer)

// WithLabels sets the candidate labels, tried in the given order.
func WithLabels(labels ...string) DiscoverOption {
	return func(d *Discoverer) {
		if len(labels) > 0 {
			d.labels = append([]string(nil), labels...)
		}
	}
}

// WithMaxResults sets the page size used by every search, fallback included.
func WithMaxResults(n int) DiscoverOption {
	return func(d *Discoverer) {
		if n > 0 {
			d.maxResults = n
		}
	}
}

// WithDiscoveryLogger sets the logger that traces state transitions.
func WithDiscoveryLogger(l *slog.Logger) DiscoverOption {
	return func(d *Discoverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDiscoverer returns a Discoverer using the default labels and page size
// unless overridden.
func NewDiscoverer(s Searcher, opts ...DiscoverOption) *Discoverer {
	d := &Discoverer{
		searcher:   s,
		labels:     append([]string(nil), DefaultEpicLabels...),
		maxResults: DefaultMaxResults,
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type state int

const (
	stateTryCandidate state = iota
	stateFallback
	stateDone
)

func (s state) String() string {
	switch s {
	case stateTryCandidate:
		return "try-candidate"
	case stateFallback:
		return "fallback"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// outcome classifies the response to one probe.
type outcome int

const (
	outcomeMatch outcome = iota
	outcomeEmpty
	outcomeRejected
	outcomeFatal
)

func classify(result *SearchResult, err error) outcome {
	switch {
	case err != nil && IsQueryRejected(err):
		return outcomeRejected
	case err != nil:
		return outcomeFatal
	case result != nil && len(result.Issues) > 0:
		return outcomeMatch
	default:
		return outcomeEmpty
	}
}

// machine is the discovery state. candidate is the index of the label being
// tried while in stateTryCandidate.
type machine struct {
	state     state
	candidate int
}

// advance applies a probe outcome. A match ends the search, a rejected or
// empty probe moves to the next label, and running out of labels moves to
// the fallback. Fatal outcomes never reach here.
func (m machine) advance(o outcome, numLabels int) machine {
	if o == outcomeMatch {
		return machine{state: stateDone}
	}
	next := m.candidate + 1
	if next >= numLabels {
		return machine{state: stateFallback, candidate: next}
	}
	return machine{state: stateTryCandidate, candidate: next}
}

// Discover returns the Epics of projectKey.
//
// The first label whose search returns at least one issue wins. A 400 or an
// empty result moves on to the next label. Any other failure aborts
// immediately. When every label comes up empty, the issue types of the
// instance are listed and the first one that looks like an Epic is searched
// once; if that finds nothing, or any step of it fails, the result is empty.
// An empty result is not an error.
func (d *Discoverer) Discover(ctx context.Context, projectKey string) (*SearchResult, error) {
	m := machine{state: stateTryCandidate}
	if len(d.labels) == 0 {
		m.state = stateFallback
	}

	var result *SearchResult
	for m.state != stateDone {
		switch m.state {
		case stateTryCandidate:
			label := d.labels[m.candidate]
			res, err := d.searcher.Search(ctx, d.query(projectKey, label))
			o := classify(res, err)
			if o == outcomeFatal {
				d.logger.Debug("probe failed", "label", label, "error", err)
				return nil, err
			}
			d.logProbe(label, o, res, err)
			if o == outcomeMatch {
				result = res
			}
			m = m.advance(o, len(d.labels))

		case stateFallback:
			d.logger.Debug("no candidate label matched, trying issue type discovery")
			result = d.fallback(ctx, projectKey)
			m = machine{state: stateDone}
		}
		d.logger.Debug("state transition", "state", m.state.String(), "candidate", m.candidate)
	}

	return result, nil
}

// fallback never fails: anything that goes wrong yields the empty result.
func (d *Discoverer) fallback(ctx context.Context, projectKey string) *SearchResult {
	types, err := d.searcher.IssueTypes(ctx)
	if err != nil {
		d.logger.Debug("listing issue types failed", "error", err)
		return EmptyResult()
	}

	label, ok := FirstEpicType(types)
	if !ok {
		d.logger.Debug("no issue type looks like an Epic", "types", len(types))
		return EmptyResult()
	}
	d.logger.Debug("retrying with discovered issue type", "label", label)

	res, err := d.searcher.Search(ctx, d.query(projectKey, label))
	if err != nil {
		d.logger.Debug("fallback search failed", "label", label, "error", err)
		return EmptyResult()
	}
	if res == nil || len(res.Issues) == 0 {
		d.logger.Debug("fallback search matched nothing", "label", label)
		return EmptyResult()
	}

	d.logger.Debug("fallback search matched", "label", label, "count", len(res.Issues))
	return res
}

func (d *Discoverer) query(projectKey, label string) SearchQuery {
	return SearchQuery{
		ProjectKey: projectKey,
		IssueType:  label,
		MaxResults: d.maxResults,
		Fields:     EpicFields,
	}
}

func (d *Discoverer) logProbe(label string, o outcome, res *SearchResult, err error) {
	switch o {
	case outcomeMatch:
		d.logger.Debug("probe matched", "label", label, "count", len(res.Issues))
	case outcomeEmpty:
		d.logger.Debug("probe returned no issues", "label", label)
	case outcomeRejected:
		d.logger.Debug("probe rejected by Jira", "label", label, "error", err)
	}
}
