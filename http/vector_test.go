package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hasna/docdex"
	docdexhttp "github.com/hasna/docdex/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_CreateIndex_posts_name_and_dimensions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/indexes", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body struct {
			Name       string `json:"name"`
			Dimensions int    `json:"dimensions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "docs-example-com", body.Name)
		assert.Equal(t, 768, body.Dimensions)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	require.NoError(t, v.CreateIndex(context.Background(), "docs-example-com", 768))
}

func TestVectorIndex_CreateIndex_tolerates_existing_index(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "index exists"})
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	require.NoError(t, v.CreateIndex(context.Background(), "docs-example-com", 768))
}

func TestVectorIndex_ListIndexes_decodes_names(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/indexes", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string][]string{"indexes": {"a", "b"}})
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	names, err := v.ListIndexes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestVectorIndex_Upsert_sends_vectors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indexes/docs/upsert", r.URL.Path)

		var body struct {
			Vectors []docdex.VectorData `json:"vectors"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Vectors, 1)
		assert.Equal(t, "chunk-1", body.Vectors[0].Key)
		assert.Equal(t, []float32{0.1, 0.2}, body.Vectors[0].Data)
		assert.Equal(t, "guide/intro.md", body.Vectors[0].Metadata.FilePath)
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	err := v.Upsert(context.Background(), "docs", []docdex.VectorData{{
		Key:      "chunk-1",
		Data:     []float32{0.1, 0.2},
		Metadata: docdex.VectorMetadata{LibraryID: "docs", FilePath: "guide/intro.md"},
	}})
	require.NoError(t, err)
}

func TestVectorIndex_Upsert_skips_request_for_no_vectors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	require.NoError(t, v.Upsert(context.Background(), "docs", nil))
}

func TestVectorIndex_Query_requests_metadata_and_decodes_results(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indexes/docs/query", r.URL.Path)

		var body struct {
			Vector          []float32 `json:"vector"`
			TopK            int       `json:"topK"`
			IncludeMetadata bool      `json:"includeMetadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 5, body.TopK)
		assert.True(t, body.IncludeMetadata)

		_ = json.NewEncoder(w).Encode(map[string][]docdex.SearchResult{
			"results": {{Key: "k1", Score: 0.92, Metadata: docdex.VectorMetadata{Title: "Intro"}}},
		})
	}))
	defer srv.Close()

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	results, err := v.Query(context.Background(), "docs", []float32{0.5}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "k1", results[0].Key)
	assert.InDelta(t, 0.92, results[0].Score, 1e-9)
	assert.Equal(t, "Intro", results[0].Metadata.Title)
}

func TestVectorIndex_maps_service_errors_to_codes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		code   string
	}{
		{http.StatusNotFound, docdex.ENOTFOUND},
		{http.StatusBadRequest, docdex.EINVALID},
		{http.StatusInternalServerError, docdex.EUNAVAILABLE},
		{http.StatusTooManyRequests, docdex.EUNAVAILABLE},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		}))

		v := docdexhttp.NewVectorIndex(srv.URL, "secret")
		_, err := v.Query(context.Background(), "docs", []float32{0.5}, 5)
		require.Error(t, err)
		assert.Equal(t, tt.code, docdex.ErrorCode(err))
		assert.Equal(t, "nope", docdex.ErrorMessage(err))
		srv.Close()
	}
}

func TestVectorIndex_reports_unreachable_service(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	v := docdexhttp.NewVectorIndex(srv.URL, "secret")
	_, err := v.ListIndexes(context.Background())
	require.Error(t, err)
	assert.Equal(t, docdex.EUNAVAILABLE, docdex.ErrorCode(err))
}
