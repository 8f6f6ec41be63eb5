// Package endpoint derives the Jira Cloud base URL and the Basic auth
// credential from user-supplied identifiers. Everything here is pure string
// work: no network calls.
package endpoint

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// CloudSuffix is appended to the label guessed from an email domain.
const CloudSuffix = ".atlassian.net"

// ErrMalformedIdentifier is returned when a domain cannot be guessed from the
// identifier because it is not shaped like an email address.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// Resolve returns the base URL of the Jira instance.
//
// An explicit domain is used verbatim. Otherwise the domain is guessed from
// the identifier: "user@acme.com" becomes "acme.atlassian.net". The result
// always carries a scheme (https:// unless one is given) and never ends in a
// slash.
func Resolve(explicitDomain, identifier string) (string, error) {
	domain := explicitDomain
	if domain == "" {
		guessed, err := domainFromIdentifier(identifier)
		if err != nil {
			return "", err
		}
		domain = guessed
	}

	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}

	return strings.TrimRight(domain, "/"), nil
}

func domainFromIdentifier(identifier string) (string, error) {
	_, host, ok := strings.Cut(identifier, "@")
	if !ok {
		return "", fmt.Errorf("%w: %q has no '@' to derive a domain from", ErrMalformedIdentifier, identifier)
	}
	label, _, ok := strings.Cut(host, ".")
	if !ok {
		return "", fmt.Errorf("%w: domain part of %q has no '.'", ErrMalformedIdentifier, identifier)
	}
	return label + CloudSuffix, nil
}

// Credential builds the Authorization header value for Basic auth.
func Credential(identifier, secret string) string {
	creds := base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
	return "Basic " + creds
}
