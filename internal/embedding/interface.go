// Package embedding implements C1, the embedding gateway: text in, a
// unit-normalized vector out, backed by a small in-process cache and an
// upstream provider with a bounded retry budget.
package embedding

import "context"

// Backend is the narrow contract an upstream embedding provider must
// satisfy. providers/openai and providers/azure both implement it.
type Backend interface {
	Embed(ctx context.Context, traceID, model, text string) ([]float32, error)
}
