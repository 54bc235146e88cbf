// Package anthropic provides the Anthropic backend for C5 (answer
// generation). It speaks the plain Messages API only - no streaming, no
// tool calling - since this engine only ever issues a single-shot
// system+user chat call per question.
package anthropic

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
	ProviderName = "anthropic"

	// DefaultBaseURL is the default Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultAPIVersion is the default Anthropic API version.
	DefaultAPIVersion = "2023-06-01"
)

// Provider implements the Anthropic Messages API chat backend.
type Provider struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// New creates a new Anthropic provider with the given options.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    DefaultBaseURL,
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

type chatRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Chat issues a single, non-streaming Messages API call and returns the
// concatenated text of the reply.
func (p *Provider) Chat(ctx context.Context, traceID, model, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	reqBody := chatRequest{
		Model:     model,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
		MaxTokens: maxTokens,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "marshal chat request", err)
	}

	url := strings.TrimSuffix(p.baseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", p.apiVersion)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "call anthropic messages", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "read chat response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", ragerrors.New(ragerrors.KindLLMUnavailable, traceID,
			fmt.Sprintf("anthropic messages returned %d: %s", resp.StatusCode, string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "unmarshal chat response", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", ragerrors.New(ragerrors.KindLLMUnavailable, traceID, "anthropic messages returned no text content")
	}

	return text.String(), nil
}
