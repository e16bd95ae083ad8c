// Package tavily is a client for the Tavily web search API, used as
// supplemental context when local retrieval comes up short.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tavily.com"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a web search client. An empty api key produces a client
// that reports itself unavailable and never performs requests.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns formatted result snippets, one "Source: <title>" block per
// result, joined by blank lines. Failures return an error for the caller to
// swallow; web search never surfaces errors to the end user.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if !c.IsAvailable() {
		return "", nil
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	reqBody, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/search", c.baseURL), bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tavily search failed: %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		title := r.Title
		if title == "" {
			title = "Unknown"
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\n%s", title, r.Content))
	}
	return strings.Join(blocks, "\n\n"), nil
}
