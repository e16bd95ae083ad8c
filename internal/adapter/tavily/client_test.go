package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailable(t *testing.T) {
	assert.False(t, NewClient("").IsAvailable())
	assert.True(t, NewClient("tvly-key").IsAvailable())
}

func TestSearchWithoutKeyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an api key")
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("", srv.URL)
	result, err := c.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSearchFormatsResults(t *testing.T) {
	var gotReq searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "A", "content": "foo"},
				{"title": "B", "content": "bar"},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tvly-key", srv.URL)
	result, err := c.Search(context.Background(), "what is foo", 3)
	require.NoError(t, err)

	assert.Equal(t, "Source: A\nfoo\n\nSource: B\nbar", result)
	assert.Equal(t, "tvly-key", gotReq.APIKey)
	assert.Equal(t, "what is foo", gotReq.Query)
	assert.Equal(t, "basic", gotReq.SearchDepth)
	assert.Equal(t, 3, gotReq.MaxResults)
}

func TestSearchMissingTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"content": "untitled content"}},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tvly-key", srv.URL)
	result, err := c.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Equal(t, "Source: Unknown\nuntitled content", result)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("tvly-key", srv.URL)
	_, err := c.Search(context.Background(), "q", 1)
	assert.Error(t, err)
}
