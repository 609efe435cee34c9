package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hasna/docdex"
)

// DefaultVectorTimeout is the default timeout for vector index
// requests. Upserts carry full embeddings and need more headroom than
// page fetches.
const DefaultVectorTimeout = 30 * time.Second

var _ docdex.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a REST client for the vector index service. All
// requests carry bearer authentication and JSON bodies.
type VectorIndex struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// VectorOption configures a VectorIndex.
type VectorOption func(*VectorIndex)

// WithVectorTimeout sets the timeout for vector index requests.
func WithVectorTimeout(d time.Duration) VectorOption {
	return func(v *VectorIndex) {
		v.client.Timeout = d
	}
}

// NewVectorIndex creates a vector index client for the service at
// baseURL, authenticating with apiKey.
func NewVectorIndex(baseURL, apiKey string, opts ...VectorOption) *VectorIndex {
	v := &VectorIndex{
		client:  &http.Client{Timeout: DefaultVectorTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CreateIndex creates a named index with the given dimensionality.
// Creating an index that already exists is not an error.
func (v *VectorIndex) CreateIndex(ctx context.Context, name string, dimensions int) error {
	body := struct {
		Name       string `json:"name"`
		Dimensions int    `json:"dimensions"`
	}{Name: name, Dimensions: dimensions}

	err := v.do(ctx, http.MethodPost, "/v1/indexes", body, nil)
	if docdex.ErrorCode(err) == docdex.ECONFLICT {
		return nil
	}
	return err
}

// ListIndexes returns the names of all indexes.
func (v *VectorIndex) ListIndexes(ctx context.Context) ([]string, error) {
	var out struct {
		Indexes []string `json:"indexes"`
	}
	if err := v.do(ctx, http.MethodGet, "/v1/indexes", nil, &out); err != nil {
		return nil, err
	}
	return out.Indexes, nil
}

// DeleteIndex removes an index and all its vectors.
func (v *VectorIndex) DeleteIndex(ctx context.Context, name string) error {
	return v.do(ctx, http.MethodDelete, "/v1/indexes/"+url.PathEscape(name), nil, nil)
}

// Upsert inserts or replaces vectors in the named index, keyed by
// VectorData.Key.
func (v *VectorIndex) Upsert(ctx context.Context, indexName string, vectors []docdex.VectorData) error {
	if len(vectors) == 0 {
		return nil
	}
	body := struct {
		Vectors []docdex.VectorData `json:"vectors"`
	}{Vectors: vectors}
	return v.do(ctx, http.MethodPost, "/v1/indexes/"+url.PathEscape(indexName)+"/upsert", body, nil)
}

// Query returns the topK nearest vectors to the given query vector,
// with metadata, ordered by descending similarity.
func (v *VectorIndex) Query(ctx context.Context, indexName string, vector []float32, topK int) ([]docdex.SearchResult, error) {
	body := struct {
		Vector          []float32 `json:"vector"`
		TopK            int       `json:"topK"`
		IncludeMetadata bool      `json:"includeMetadata"`
	}{Vector: vector, TopK: topK, IncludeMetadata: true}

	var out struct {
		Results []docdex.SearchResult `json:"results"`
	}
	if err := v.do(ctx, http.MethodPost, "/v1/indexes/"+url.PathEscape(indexName)+"/query", body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// do executes one JSON request against the service. A non-nil body is
// marshaled into the request; a non-nil out receives the decoded
// response body.
func (v *VectorIndex) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "marshaling request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reqBody)
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return docdex.Errorf(docdex.EUNAVAILABLE, "vector index unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromStatus(resp.StatusCode, resp.Body)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return docdex.Errorf(docdex.EINTERNAL, "decoding response: %v", err)
		}
	}

	return nil
}

// errorFromStatus maps service HTTP status codes onto application error
// codes, carrying the service's error message when one is present.
func errorFromStatus(status int, body io.Reader) error {
	message := fmt.Sprintf("vector index returned HTTP %d", status)
	var svcErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&svcErr); err == nil && svcErr.Error != "" {
		message = svcErr.Error
	}

	code := docdex.EINTERNAL
	switch {
	case status == http.StatusNotFound:
		code = docdex.ENOTFOUND
	case status == http.StatusConflict:
		code = docdex.ECONFLICT
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = docdex.EINVALID
	case status == http.StatusTooManyRequests || status >= 500:
		code = docdex.EUNAVAILABLE
	}

	return docdex.Errorf(code, "%s", message)
}
