package jira

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from Jira. The body is kept verbatim since
// Jira puts the JQL validation messages there.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("JIRA API returned %d: %s", e.StatusCode, e.Body)
}

// TransportError is a failure to get any response at all (DNS, refused
// connection, timeout, truncated body).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsQueryRejected reports whether err is a 400 from Jira, which for a search
// means the JQL was refused (typically an unknown issue type name).
func IsQueryRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}
