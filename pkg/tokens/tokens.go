// Package tokens provides tiktoken-based token estimation.
//
// Estimates are used for observability when a transport reports no usage
// counters; episode accounting always prefers transport-reported counts.
package tokens

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter estimates token counts for prompt and completion text.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter creates a counter. All supported chat models are approximated
// with the GPT-4 encoding, which is close enough for cost observability.
func NewCounter() (*Counter, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec: %w", err)
	}
	return &Counter{codec: codec}, nil
}

// Count returns the estimated number of tokens in text.
func (c *Counter) Count(text string) int {
	if c.codec == nil {
		return estimate(text)
	}
	count, err := c.codec.Count(text)
	if err != nil {
		return estimate(text)
	}
	return count
}

// estimate is the character-based fallback (4 chars per token).
func estimate(text string) int {
	return len(text) / 4
}

//nolint:gochecknoglobals // Lazily initialized shared counter
var (
	sharedOnce    sync.Once
	sharedCounter *Counter
)

// CountSimple estimates tokens without managing a Counter instance.
func CountSimple(text string) int {
	sharedOnce.Do(func() {
		counter, err := NewCounter()
		if err == nil {
			sharedCounter = counter
		}
	})
	if sharedCounter == nil {
		return estimate(text)
	}
	return sharedCounter.Count(text)
}
