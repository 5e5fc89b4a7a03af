package llm

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedChat is a controllable ChatFunc source for tests and demos.
// Responses and errors are consumed in order; when an error is queued for
// the current call it takes precedence over the next response.
type ScriptedChat struct {
	mu            sync.Mutex
	responses     []Response
	responseIndex int
	errors        []error
	errorIndex    int
}

// NewScriptedChat creates a scripted chat with predefined responses and errors.
func NewScriptedChat(responses []Response, errors []error) *ScriptedChat {
	return &ScriptedChat{
		responses: responses,
		errors:    errors,
	}
}

// Func returns the ChatFunc view of the script.
func (s *ScriptedChat) Func() ChatFunc {
	return func(_ context.Context, _ string) (Response, error) {
		return s.next()
	}
}

func (s *ScriptedChat) next() (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errorIndex < len(s.errors) && s.errors[s.errorIndex] != nil {
		err := s.errors[s.errorIndex]
		s.errorIndex++
		return Response{}, err
	}
	if s.errorIndex < len(s.errors) {
		s.errorIndex++
	}

	if s.responseIndex >= len(s.responses) {
		return Response{}, fmt.Errorf("scripted chat: no more responses")
	}

	resp := s.responses[s.responseIndex]
	s.responseIndex++
	return resp, nil
}

// HangingChat returns a ChatFunc that blocks until its context is done.
// Useful for exercising the bridge timeout.
func HangingChat() ChatFunc {
	return func(ctx context.Context, _ string) (Response, error) {
		<-ctx.Done()
		return Response{}, ctx.Err()
	}
}
