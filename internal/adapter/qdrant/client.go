// Package qdrant is a minimal REST client for Qdrant implementing the
// per-user vector store. Every user gets one collection with cosine
// distance; collection creation is lazy and idempotent.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"
)

type Client struct {
	url       string
	apiKey    string
	dimension int
	client    *http.Client
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		dimension: repository.EmbeddingDimension,
		client:    &http.Client{Timeout: timeout},
	}
}

// CollectionName is a pure function of the user id: the same id always maps
// to the same collection. Non-alphanumeric characters are normalized to '_'.
func CollectionName(userID string) string {
	name := make([]byte, 0, len(userID)+5)
	name = append(name, "user_"...)
	for i := 0; i < len(userID); i++ {
		c := userID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			name = append(name, c)
		default:
			name = append(name, '_')
		}
	}
	return string(name)
}

func (c *Client) EnsureCollection(ctx context.Context, userID string) (string, error) {
	collection := CollectionName(userID)

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant answers 200 for a fresh create and 409 when the collection
	// already exists; both count as success.
	if err := c.putJSON(ctx, fmt.Sprintf("%s/collections/%s", c.url, collection), body, http.StatusConflict); err != nil {
		return "", err
	}
	return collection, nil
}

func (c *Client) Upsert(ctx context.Context, collection string, points []repository.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(points))
	for i, p := range points {
		payload[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": payload}
	return c.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", c.url, collection), body)
}

func (c *Client) Query(ctx context.Context, collection string, vector []float32, topK int, scoreThreshold float64) ([]repository.ScoredPoint, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      string                  `json:"id"`
			Score   float64                 `json:"score"`
			Payload repository.PointPayload `json:"payload"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", c.url, collection), req, &resp); err != nil {
		return nil, err
	}

	// The threshold cuts into the already-retrieved top-K; it never widens
	// the candidate window.
	results := make([]repository.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		if r.Score < scoreThreshold {
			continue
		}
		results = append(results, repository.ScoredPoint{
			ID:      r.ID,
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return results, nil
}

func (c *Client) DeleteByDocument(ctx context.Context, collection, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}
	return c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.url, collection), body, nil)
}

func (c *Client) putJSON(ctx context.Context, url string, body any, okStatuses ...int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && !statusIn(resp.StatusCode, okStatuses) {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func statusIn(status int, set []int) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
