// Package ollama wraps the Ollama HTTP API for streaming text generation.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			// generation requests can run for minutes on local models
			Timeout: 5 * time.Minute,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// IsAvailable probes the Ollama server with a short deadline.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/tags", c.baseURL), nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Stream starts a generation request and returns a channel of response
// fragments. The channel is unbuffered: the producer goroutine holds the
// response body and sends one fragment at a time, so the reader paces the
// stream. Cancelling ctx stops the producer and releases the connection.
// The channel is closed when the model signals completion, the stream
// fails, or ctx is cancelled.
func (c *Client) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/generate", c.baseURL), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(body))
	}

	fragments := make(chan string)
	go func() {
		defer close(fragments)
		defer resp.Body.Close()

		decoder := json.NewDecoder(resp.Body)
		for {
			var genResp generateResponse
			if err := decoder.Decode(&genResp); err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return
				}
				select {
				case fragments <- fmt.Sprintf("Error generating response: %v", err):
				case <-ctx.Done():
				}
				return
			}
			if genResp.Response != "" {
				select {
				case fragments <- genResp.Response:
				case <-ctx.Done():
					return
				}
			}
			if genResp.Done {
				return
			}
		}
	}()
	return fragments, nil
}
