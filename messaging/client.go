// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

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
)

// maxResponseBytes bounds how much of a response body the client
// reads. Room lists for a bot are small; anything larger is a broken
// or hostile server.
const maxResponseBytes = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the platform API base URL (e.g., "https://api.example.com").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated platform client. It holds the base URL
// and HTTP transport, shared across Sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new platform client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("messaging: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("messaging: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Session returns an authenticated Session for the given bot account.
// The token is not validated here; the first API call fails if it is
// invalid.
func (c *Client) Session(username, token string) (*Session, error) {
	if username == "" {
		return nil, fmt.Errorf("messaging: username is required")
	}
	if token == "" {
		return nil, fmt.Errorf("messaging: token is required")
	}
	return &Session{client: c, username: username, token: token}, nil
}

// doRequest performs an HTTP request and returns the response body.
// On 2xx, returns the body. On any other status, returns a
// *PlatformError decoded from the body. token may be empty for
// unauthenticated endpoints; query may be nil.
func (c *Client) doRequest(ctx context.Context, method, path, token string, requestBody any, query url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("messaging: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("messaging: creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("messaging: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("messaging: reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All platform error responses share one JSON shape.
	var platformErr PlatformError
	if jsonErr := json.Unmarshal(responseBody, &platformErr); jsonErr != nil || platformErr.Code == "" {
		// Non-JSON error body. Should not happen with a conforming
		// server; fail loud with the raw body.
		return nil, fmt.Errorf("messaging: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	platformErr.StatusCode = response.StatusCode

	return nil, &platformErr
}
