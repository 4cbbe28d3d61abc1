package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// Published Apps Script endpoint backing the club spreadsheet.
	defaultBaseURL = "https://script.google.com/macros/s/AKfycby8z3pdN5-9FGnYy-27BLLGdxGwCy4Xq4YShWsnjm7Y6pJKs2fF9YHknTZ22kykyZU/exec"

	// Apps Script can be slow to cold-start, but anything beyond this is a hang.
	defaultTimeout = 10 * time.Second
)

// Client fetches club data from the spreadsheet-backed API. All queries go
// to a single GET endpoint dispatched on the "type" query parameter.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets a custom timeout for API requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new API client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doRequest performs a GET for one query kind and decodes the JSON body.
func (c *Client) doRequest(ctx context.Context, query url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Metadata fetches the remote data generation used for staleness checks.
func (c *Client) Metadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	err := c.doRequest(ctx, url.Values{"type": {"checkUpdate"}}, &meta)
	return meta, err
}

// Summary fetches the home-page summary payload.
func (c *Client) Summary(ctx context.Context) (SummaryData, error) {
	var data SummaryData
	err := c.doRequest(ctx, url.Values{"type": {"summary"}}, &data)
	return data, err
}

// Players fetches the raw players sheet.
func (c *Client) Players(ctx context.Context) (PlayersData, error) {
	var data PlayersData
	err := c.doRequest(ctx, url.Values{"type": {"players"}}, &data)
	return data, err
}

// PlayerDetails fetches one player's match history and aggregates.
func (c *Client) PlayerDetails(ctx context.Context, name string) (PlayerDetailsData, error) {
	var data PlayerDetailsData
	err := c.doRequest(ctx, url.Values{"type": {"playerDetails"}, "name": {name}}, &data)
	return data, err
}

// MatchData fetches the raw match sheet rows.
func (c *Client) MatchData(ctx context.Context) (MatchDataResponse, error) {
	var data MatchDataResponse
	err := c.doRequest(ctx, url.Values{"type": {"all"}}, &data)
	return data, err
}
