// Package llm defines the chat-provider contract C5 depends on. It is
// deliberately narrower than a general-purpose LLM client: chat-only, no
// streaming, no tool calling (all explicitly out of scope, spec §1/§4.5).
package llm

import "context"

// ChatProvider is satisfied by providers/openai.Provider and
// providers/anthropic.Provider.
type ChatProvider interface {
	Chat(ctx context.Context, traceID, model, systemPrompt, userPrompt string, maxTokens int) (string, error)
	Name() string
}
