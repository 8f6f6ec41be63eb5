package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ctreminiom/go-atlassian/v2/pkg/infra/models"
)

// Transport executes a single HTTP request. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a JIRA REST API v3 client.
type Client struct {
	baseURL    string
	authHeader string
	transport  Transport
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default http.Client.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger used for request/response tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the instance at baseURL. credential is the
// complete Authorization header value (see endpoint.Credential).
func NewClient(baseURL, credential string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: credential,
		transport:  &http.Client{},
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the instance URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs one JQL search against /rest/api/3/search/jql. Only the first
// page is fetched.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	payload := SearchRequest{
		JQL:        q.JQL(),
		MaxResults: q.MaxResults,
		Fields:     q.Fields,
	}

	body, err := c.do(ctx, http.MethodPost, "/rest/api/3/search/jql", payload)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if result.Issues == nil {
		result.Issues = []json.RawMessage{}
	}
	return &result, nil
}

// IssueTypes lists every issue type visible to the user. The list is not
// scoped to a project.
func (c *Client) IssueTypes(ctx context.Context) ([]IssueTypeDescriptor, error) {
	body, err := c.do(ctx, http.MethodGet, "/rest/api/3/issuetype", nil)
	if err != nil {
		return nil, err
	}

	var schemes []*models.IssueTypeScheme
	if err := json.Unmarshal(body, &schemes); err != nil {
		return nil, fmt.Errorf("decoding issue types: %w", err)
	}

	types := make([]IssueTypeDescriptor, 0, len(schemes))
	for _, s := range schemes {
		if s == nil {
			continue
		}
		types = append(types, IssueTypeDescriptor{
			Name:           s.Name,
			ID:             s.ID,
			HierarchyLevel: s.HierarchyLevel,
		})
	}
	return types, nil
}

// GetProject fetches a project by key.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/rest/api/3/project/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}

	var scheme models.ProjectScheme
	if err := json.Unmarshal(body, &scheme); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	return &Project{ID: scheme.ID, Key: scheme.Key, Name: scheme.Name}, nil
}

// GetProjectStatuses returns the statuses available per issue type in a project.
func (c *Client) GetProjectStatuses(ctx context.Context, key string) ([]IssueTypeStatuses, error) {
	body, err := c.do(ctx, http.MethodGet, "/rest/api/3/project/"+url.PathEscape(key)+"/statuses", nil)
	if err != nil {
		return nil, err
	}

	var statuses []IssueTypeStatuses
	if err := json.Unmarshal(body, &statuses); err != nil {
		return nil, fmt.Errorf("decoding project statuses: %w", err)
	}
	return statuses, nil
}

// do performs an authenticated request and returns the response body.
// Transport failures come back as *TransportError, non-2xx as *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling payload: %w", err)
		}
		c.logger.Debug("request payload", "payload", string(data))
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, payload != nil)

	c.logger.Debug("sending request", "method", method, "url", fullURL, "headers", redactedHeaders(req.Header))

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("received response", "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

func redactedHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if k == "Authorization" {
			out[k] = "[redacted]"
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
