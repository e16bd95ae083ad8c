package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ragbot/internal/domain/entity"
	"ragbot/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "user_alice", CollectionName("alice"))
	assert.Equal(t, "user_123_abc_def", CollectionName("123-abc.def"))
	assert.Equal(t, "user_a_b_c", CollectionName("a b@c"))

	// deterministic: same id, same name
	assert.Equal(t, CollectionName("u-1"), CollectionName("u-1"))
}

func TestEnsureCollection(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	status := http.StatusOK

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})

	collection, err := c.EnsureCollection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user_user_1", collection)
	assert.Equal(t, "/collections/user_user_1", gotPath)

	vectors := gotBody["vectors"].(map[string]any)
	assert.EqualValues(t, repository.EmbeddingDimension, vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	// an already-existing collection answers 409 and still counts as success
	status = http.StatusConflict
	collection, err = c.EnsureCollection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user_user_1", collection)
}

func TestUpsertBody(t *testing.T) {
	var gotQuery string
	var gotBody struct {
		Points []struct {
			ID      string                  `json:"id"`
			Vector  []float32               `json:"vector"`
			Payload repository.PointPayload `json:"payload"`
		} `json:"points"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	err := c.Upsert(context.Background(), "user_u1", []repository.VectorPoint{
		{
			ID:     "point-1",
			Vector: []float32{0.1, 0.2},
			Payload: repository.PointPayload{
				DocumentID:     "doc-1",
				ChunkIndex:     3,
				ContentPreview: "preview text",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "wait=true", gotQuery)
	require.Len(t, gotBody.Points, 1)
	assert.Equal(t, "point-1", gotBody.Points[0].ID)
	assert.Equal(t, "doc-1", gotBody.Points[0].Payload.DocumentID)
	assert.Equal(t, 3, gotBody.Points[0].Payload.ChunkIndex)
	assert.Equal(t, "preview text", gotBody.Points[0].Payload.ContentPreview)
}

func TestUpsertNoPointsSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	require.NoError(t, c.Upsert(context.Background(), "user_u1", nil))
}

func TestQueryAppliesThresholdAfterTopK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 3, req["limit"])
		assert.Equal(t, true, req["with_payload"])

		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": "a", "score": 0.9, "payload": map[string]any{"document_id": "d1", "chunk_index": 0}},
				{"id": "b", "score": 0.6, "payload": map[string]any{"document_id": "d1", "chunk_index": 1}},
				{"id": "c", "score": 0.2, "payload": map[string]any{"document_id": "d2", "chunk_index": 0}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	hits, err := c.Query(context.Background(), "user_u1", []float32{0.5}, 3, 0.5)
	require.NoError(t, err)

	// the 0.2-score hit is cut by the threshold, order is preserved
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
	assert.Equal(t, "d1", hits[0].Payload.DocumentID)
}

func TestDeleteByDocumentFilter(t *testing.T) {
	var gotBody struct {
		Filter struct {
			Must []struct {
				Key   string `json:"key"`
				Match struct {
					Value string `json:"value"`
				} `json:"match"`
			} `json:"must"`
		} `json:"filter"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/user_u1/points/delete", r.URL.Path)
		assert.Equal(t, "wait=true", r.URL.RawQuery)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL})
	require.NoError(t, c.DeleteByDocument(context.Background(), "user_u1", "doc-9"))

	require.Len(t, gotBody.Filter.Must, 1)
	assert.Equal(t, "document_id", gotBody.Filter.Must[0].Key)
	assert.Equal(t, "doc-9", gotBody.Filter.Must[0].Match.Value)
}

func TestUnreachableServerIsStoreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(Config{URL: srv.URL})

	_, err := c.EnsureCollection(context.Background(), "user-1")
	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)

	_, err = c.Query(context.Background(), "user_u1", []float32{0.1}, 5, 0)
	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "secret"})
	_, err := c.EnsureCollection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
