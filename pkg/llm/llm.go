// Package llm provides the language model call path used by the bot: the
// injected chat function type, a synchronous bridge with timeout enforcement,
// bounded retries, middleware chaining, and transport adapters for real
// providers.
package llm

import "context"

// Usage holds token-count accounting reported alongside a completion.
// Transports that report no counters leave the fields zero.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// IsZero reports whether no counters were recorded.
func (u Usage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Response is the result of a single chat exchange.
type Response struct {
	Content string
	Usage   Usage
}

// ChatFunc is the injected LLM invocation: prompt text in, response text and
// usage out. Implementations may block on network I/O for an unbounded time
// and may fail or hang; callers go through Call or Caller, which bound and
// retry the invocation.
type ChatFunc func(ctx context.Context, prompt string) (Response, error)

// Middleware wraps a ChatFunc with additional behavior.
type Middleware func(next ChatFunc) ChatFunc

// Chain composes middlewares around a base ChatFunc. Middlewares are applied
// in order, with earlier middlewares being outermost:
//
//	Chain(chat, mw1, mw2) // mw1 -> mw2 -> chat
func Chain(base ChatFunc, middlewares ...Middleware) ChatFunc {
	chat := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		chat = middlewares[i](chat)
	}
	return chat
}
