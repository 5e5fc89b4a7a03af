package llm

import (
	"context"
	"time"

	"spielbot/pkg/logx"
)

// RetryConfig defines the retry policy around the call bridge. The delay is
// fixed between attempts; the decision pipeline wants predictable per-turn
// latency, not exponential growth.
type RetryConfig struct {
	MaxAttempts int           // Total attempts including the first call
	Delay       time.Duration // Fixed delay between attempts
	CallTimeout time.Duration // Wall-clock bound per attempt
}

// DefaultRetryConfig provides the standard policy for turn decisions.
//
//nolint:gochecknoglobals // Shared default configuration value
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	Delay:       time.Second,
	CallTimeout: DefaultCallTimeout,
}

// Caller wraps a ChatFunc with the call bridge and bounded retries.
// Every failure mode resolves to either a Response or an *ExhaustedError;
// nothing else escapes.
type Caller struct {
	chat   ChatFunc
	config RetryConfig
	logger *logx.Logger
}

// NewCaller creates a retrying caller around chat.
func NewCaller(chat ChatFunc, config RetryConfig, logger *logx.Logger) *Caller {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultRetryConfig.MaxAttempts
	}
	if config.Delay < 0 {
		config.Delay = DefaultRetryConfig.Delay
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = DefaultRetryConfig.CallTimeout
	}
	if logger == nil {
		logger = logx.NewLogger("llm")
	}
	return &Caller{chat: chat, config: config, logger: logger}
}

// Call invokes the chat function up to MaxAttempts times. On success it
// returns the response. On exhaustion it returns an *ExhaustedError carrying
// the prompt, the final failure, and the attempt count.
func (c *Caller) Call(ctx context.Context, prompt string) (Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		resp, err := Call(ctx, c.chat, prompt, c.config.CallTimeout)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt < c.config.MaxAttempts {
			c.logger.Warn("llm call failed (attempt %d/%d): %v, retrying in %s",
				attempt, c.config.MaxAttempts, err, c.config.Delay)
			select {
			case <-ctx.Done():
				// Caller is gone; report what we have so far as terminal.
				return Response{}, &ExhaustedError{Prompt: prompt, Attempts: attempt, Last: lastErr}
			case <-time.After(c.config.Delay):
			}
			continue
		}

		c.logger.Warn("llm call failed after %d attempts: %v, falling back", c.config.MaxAttempts, err)
	}

	return Response{}, &ExhaustedError{
		Prompt:   prompt,
		Attempts: c.config.MaxAttempts,
		Last:     lastErr,
	}
}
