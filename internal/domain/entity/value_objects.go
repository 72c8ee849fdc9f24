package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// EndpointURL represents a typed base URL for a node endpoint (RPC or REST).
type EndpointURL string

// NewEndpointURL validates rawURL and strips any trailing slash so paths can be appended.
func NewEndpointURL(rawURL string) (EndpointURL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("endpoint url cannot be empty")
	}

	u, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint url format '%s': %w", rawURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("endpoint url '%s' has unsupported scheme: '%s'", rawURL, scheme)
	}

	return EndpointURL(strings.TrimRight(trimmed, "/")), nil
}

// String returns the string representation of the EndpointURL.
func (u EndpointURL) String() string {
	return string(u)
}

// Join appends an absolute path to the base URL.
func (u EndpointURL) Join(path string) string {
	if path == "" {
		return string(u)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return string(u) + path
}

// WebsocketURL converts the endpoint to its ws/wss equivalent with the given path.
func (u EndpointURL) WebsocketURL(path string) string {
	raw := u.Join(path)
	switch {
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	default:
		return raw
	}
}
