package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	c := NewClient(srv.URL, "test-model")
	assert.True(t, c.IsAvailable(context.Background()))

	srv.Close()
	assert.False(t, c.IsAvailable(context.Background()))
}

func TestStreamDeliversFragmentsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "tell me", req.Prompt)
		assert.True(t, req.Stream)

		enc := json.NewEncoder(w)
		enc.Encode(generateResponse{Response: "Hello"})
		enc.Encode(generateResponse{Response: " world"})
		enc.Encode(generateResponse{Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	fragments, err := c.Stream(context.Background(), "tell me")
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello", " world"}, drain(t, fragments))
}

func TestStreamNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "missing-model")
	_, err := c.Stream(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestStreamStopsOnContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.Encode(generateResponse{Response: "first"})
		w.(http.Flusher).Flush()
		<-release // hold the stream open until the test cancels
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL, "test-model")
	fragments, err := c.Stream(ctx, "prompt")
	require.NoError(t, err)

	select {
	case f := <-fragments:
		assert.Equal(t, "first", f)
	case <-time.After(2 * time.Second):
		t.Fatal("first fragment never arrived")
	}

	cancel()
	select {
	case _, ok := <-fragments:
		assert.False(t, ok, "channel should close after cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancellation")
	}
}

func drain(t *testing.T, fragments <-chan string) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-fragments:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("fragment channel never closed")
		}
	}
}
