// Package vectorstore's qdrant.go implements Store against Qdrant's REST
// API, grounded on the teacher's internal/memory/qdrant/store.go adapter:
// same collection-scoped /points/search and /collections endpoints, same
// api-key header convention, generalized here from a single fixed
// collection to an arbitrary collectionID per call (C3 fans out across
// many).
package vectorstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/huskyrag/ragcore/pkg/types"
)

// Qdrant implements Store against a Qdrant REST endpoint.
type Qdrant struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// Config holds the connection settings for a Qdrant store.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewQdrant constructs a Qdrant-backed Store.
func NewQdrant(cfg Config) *Qdrant {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Qdrant{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// setHeaders stamps every outbound Qdrant request with a fresh request id,
// independent of the caller's trace id, so upstream Qdrant logs can be
// correlated to a single HTTP call even when one trace spans many shard
// queries.
func (q *Qdrant) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		ID      json.RawMessage        `json:"id"`
		Score   float64                `json:"score"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"result"`
}

// QueryCollection performs a cosine-similarity top-k search inside one
// Qdrant collection. Qdrant's /points/search reports a similarity score
// for cosine collections (higher is closer), which this adapter converts
// back to a cosine distance in [0,2] (`d = 1 - score`) so every candidate
// leaving C2 carries the same RawDistance convention regardless of
// backend, per spec §3.
func (q *Qdrant) QueryCollection(ctx context.Context, collectionID string, vector []float32, k int, timeout time.Duration) ([]types.Candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{Vector: vector, Limit: k, WithPayload: true})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", q.baseURL, collectionID)
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	q.setHeaders(httpReq)

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call qdrant search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qdrant search returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		metadata := make(map[string]string, len(r.Payload))
		content := ""
		for key, v := range r.Payload {
			s := fmt.Sprintf("%v", v)
			if key == "content" {
				content = s
				continue
			}
			metadata[key] = s
		}

		candidates = append(candidates, types.Candidate{
			DocID:        decodePointID(r.ID),
			CollectionID: collectionID,
			Content:      content,
			Metadata:     metadata,
			RawDistance:  1 - r.Score,
		})
	}

	return candidates, nil
}

func decodePointID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return string(raw)
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

// ListCollections enumerates every collection Qdrant currently holds.
// Shard-vs-bookkeeping classification (names containing "batch") happens
// one layer up, in Client, per spec §3.
func (q *Qdrant) ListCollections(ctx context.Context) ([]types.Shard, error) {
	url := q.baseURL + "/collections"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build list collections request: %w", err)
	}
	q.setHeaders(httpReq)

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call qdrant list collections: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read list collections response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qdrant list collections returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed collectionsResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal list collections response: %w", err)
	}

	shards := make([]types.Shard, 0, len(parsed.Result.Collections))
	for _, c := range parsed.Result.Collections {
		shards = append(shards, types.Shard{ID: c.Name, Name: c.Name})
	}
	return shards, nil
}
