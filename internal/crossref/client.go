// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref fetches and decodes work records from the CrossRef API.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURL is the CrossRef works endpoint.
const DefaultBaseURL = "https://api.crossref.org/works/"

// Client issues single-work lookups against the CrossRef API.
type Client struct {
	HTTPClient *http.Client

	// BaseURL is the works endpoint. Tests substitute an httptest server.
	BaseURL string

	// UserAgent identifies this tool to CrossRef.
	UserAgent string

	// Mailto is appended to the User-Agent for polite-pool access.
	Mailto string
}

// NewClient returns a Client against the public CrossRef API.
func NewClient(httpClient *http.Client, userAgent, mailto string) *Client {
	return &Client{
		HTTPClient: httpClient,
		BaseURL:    DefaultBaseURL,
		UserAgent:  userAgent,
		Mailto:     mailto,
	}
}

// FetchWork performs one GET for the given DOI. It returns the response
// body exactly as received, so callers can persist it unmodified, plus
// the decoded work. A non-200 status or an undecodable body is an error;
// no retries are attempted.
func (c *Client) FetchWork(ctx context.Context, doi string) ([]byte, *Work, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+doi, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("CrossRef API returned HTTP %d for %s", resp.StatusCode, doi)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading CrossRef response: %w", err)
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, nil, fmt.Errorf("parsing CrossRef response for %s: %w", doi, err)
	}

	return body, &r.Message, nil
}

func (c *Client) userAgent() string {
	if c.Mailto != "" {
		return fmt.Sprintf("%s (mailto:%s)", c.UserAgent, c.Mailto)
	}
	return c.UserAgent
}
