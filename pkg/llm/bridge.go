package llm

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// DefaultCallTimeout bounds a single chat invocation.
const DefaultCallTimeout = 120 * time.Second

type callResult struct {
	resp Response
	err  error
}

// Call runs chat on a dedicated worker goroutine and blocks until it
// completes or the timeout expires. The worker gets its own derived context,
// canceled before Call returns on every exit path, so a hung transport cannot
// outlive the invocation once it observes cancellation. Worker panics are
// converted into transport errors rather than crashing the turn loop.
func Call(ctx context.Context, chat ChatFunc, prompt string, timeout time.Duration) (Response, error) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the worker can always deliver and exit, even after the
	// select below has given up on it.
	done := make(chan callResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: NewError(ErrorTypeTransport,
					"chat function panicked: %v\n%s", r, debug.Stack())}
			}
		}()
		resp, err := chat(callCtx, prompt)
		done <- callResult{resp: resp, err: err}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			return Response{}, classify(result.err, timeout)
		}
		return result.resp, nil
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.Canceled) {
			return Response{}, WrapError(ErrorTypeCanceled, callCtx.Err(), "llm call canceled")
		}
		return Response{}, NewError(ErrorTypeTimeout, "llm call timeout after %s", timeout)
	}
}

// classify tags transport failures that are not already classified.
func classify(err error, timeout time.Duration) error {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return WrapError(ErrorTypeTimeout, err, fmt.Sprintf("llm call timeout after %s", timeout))
	case errors.Is(err, context.Canceled):
		return WrapError(ErrorTypeCanceled, err, "llm call canceled")
	default:
		return WrapError(ErrorTypeTransport, err, "llm call failed")
	}
}
