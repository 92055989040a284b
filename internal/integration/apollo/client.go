package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client calls the people-search scraping actor. One call runs the scrape
// synchronously and returns the dataset items.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient constructs a scraper client. The token is validated at point of
// use, not here, so a server without scraper credentials still boots.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{},
	}
}

type fetchRequest struct {
	GetPersonalEmails bool   `json:"getPersonalEmails"`
	GetWorkEmails     bool   `json:"getWorkEmails"`
	TotalRecords      int    `json:"totalRecords"`
	URL               string `json:"url"`
}

// FetchLeads runs one scrape for the given people-search deep link and
// returns the raw lead records. A non-2xx response fails the batch as a
// whole.
func (c *Client) FetchLeads(ctx context.Context, searchURL string, totalRecords int) ([]json.RawMessage, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, fmt.Errorf("SCRAPER_TOKEN is required")
	}

	endpoint := c.endpoint
	if u, err := url.Parse(endpoint); err == nil {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	payload, err := json.Marshal(fetchRequest{
		GetPersonalEmails: true,
		GetWorkEmails:     true,
		TotalRecords:      totalRecords,
		URL:               searchURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scraper read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scraper http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("scraper response parse: %w", err)
	}
	return records, nil
}
