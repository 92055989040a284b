package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Client queries the post-fetch agent for a lead's recent public posts.
type Client struct {
	baseURL    string
	agentID    string
	authToken  string
	httpClient *http.Client
}

// NewClient constructs a post-fetch client. Credentials are validated at
// point of use.
func NewClient(baseURL, agentID, authToken string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		agentID:   agentID,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type queryRequest struct {
	Inputs queryInputs `json:"inputs"`
}

type queryInputs struct {
	LinkedInURL string `json:"linkedin_url"`
}

type queryResponse struct {
	Posts []string `json:"posts"`
}

// FetchPosts returns recent public posts for a profile URL. Callers treat
// any error as "no posts available".
func (c *Client) FetchPosts(ctx context.Context, linkedinURL string) ([]string, error) {
	if strings.TrimSpace(c.agentID) == "" || strings.TrimSpace(c.authToken) == "" {
		return nil, fmt.Errorf("RELEVANCE_AGENT_ID and RELEVANCE_AUTH_TOKEN are required")
	}

	endpoint := fmt.Sprintf("%s/agents/%s/query", c.baseURL, c.agentID)

	payload, err := json.Marshal(queryRequest{Inputs: queryInputs{LinkedInURL: linkedinURL}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post fetch request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("post fetch read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("post fetch http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("post fetch response parse: %w", err)
	}
	return parsed.Posts, nil
}
