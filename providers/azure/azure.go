// Package azure provides the Azure OpenAI embedding backend for C1. It
// speaks the same embeddings payload shape as plain OpenAI but addresses a
// deployment by name, under api-key/api-version authentication rather than
// a bearer token.
package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = "azure"

	// DefaultAPIVersion is the default Azure OpenAI API version.
	DefaultAPIVersion = "2024-02-15-preview"
)

// Provider implements the Azure OpenAI embeddings backend.
type Provider struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// New creates a new Azure OpenAI provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		apiVersion: DefaultAPIVersion,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return ProviderName }

type embeddingRequest struct {
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for text against the Azure OpenAI
// deployment named by model.
func (p *Provider) Embed(ctx context.Context, traceID, model, text string) ([]float32, error) {
	base, err := url.Parse(strings.TrimSuffix(p.baseURL, "/"))
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "parse azure base url", err)
	}
	base.Path = base.Path + "/openai/deployments/" + url.PathEscape(model) + "/embeddings"
	q := base.Query()
	q.Set("api-version", p.apiVersion)
	base.RawQuery = q.Encode()

	body, err := json.Marshal(embeddingRequest{Input: text})
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "marshal embedding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), bytes.NewReader(body))
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "build embedding request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "call azure embeddings", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ragerrors.New(ragerrors.KindEmbeddingUnavailable, traceID,
			fmt.Sprintf("azure embeddings returned %d: %s", resp.StatusCode, string(data)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "unmarshal embedding response", err)
	}
	if len(parsed.Data) == 0 {
		return nil, ragerrors.New(ragerrors.KindEmbeddingUnavailable, traceID, "azure embeddings returned no data")
	}

	return parsed.Data[0].Embedding, nil
}
