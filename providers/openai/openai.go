// Package openai provides the OpenAI backend shared by C1 (embeddings)
// and C5 (answer generation). It speaks the plain chat-completion and
// embeddings REST APIs only - no streaming, no tool calling, no
// function-call transcripts, since nothing in this engine needs them.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = "openai"

	// DefaultBaseURL is the default OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Provider implements both the embedding and chat-completion backends
// against the OpenAI API.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a new OpenAI provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    DefaultBaseURL,
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
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for text using model.
func (p *Provider) Embed(ctx context.Context, traceID, model, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: model, Input: text})
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "marshal embedding request", err)
	}

	url := strings.TrimSuffix(p.baseURL, "/") + "/embeddings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "build embedding request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "call openai embeddings", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ragerrors.New(ragerrors.KindEmbeddingUnavailable, traceID,
			fmt.Sprintf("openai embeddings returned %d: %s", resp.StatusCode, string(data)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "unmarshal embedding response", err)
	}
	if len(parsed.Data) == 0 {
		return nil, ragerrors.New(ragerrors.KindEmbeddingUnavailable, traceID, "openai embeddings returned no data")
	}

	return parsed.Data[0].Embedding, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Chat issues a single, non-streaming chat-completion call and returns
// the assistant's reply text.
func (p *Provider) Chat(ctx context.Context, traceID, model, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: maxTokens,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "marshal chat request", err)
	}

	url := strings.TrimSuffix(p.baseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "call openai chat completions", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "read chat response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", ragerrors.New(ragerrors.KindLLMUnavailable, traceID,
			fmt.Sprintf("openai chat completions returned %d: %s", resp.StatusCode, string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "unmarshal chat response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ragerrors.New(ragerrors.KindLLMUnavailable, traceID, "openai chat completions returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
