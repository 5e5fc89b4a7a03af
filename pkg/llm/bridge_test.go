package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallSuccess(t *testing.T) {
	chat := func(_ context.Context, prompt string) (Response, error) {
		return Response{Content: "7", Usage: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}, nil
	}

	resp, err := Call(context.Background(), chat, "pick a move", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Content)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestCallTimeout(t *testing.T) {
	start := time.Now()
	_, err := Call(context.Background(), HangingChat(), "pick a move", 50*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected timeout classification, got %v", err)
	assert.Less(t, elapsed, time.Second, "timeout must not block far past the bound")
}

func TestCallTransportError(t *testing.T) {
	chat := func(_ context.Context, _ string) (Response, error) {
		return Response{}, errors.New("connection refused")
	}

	_, err := Call(context.Background(), chat, "pick a move", time.Second)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTransport, TypeOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCallPanicRecovered(t *testing.T) {
	chat := func(_ context.Context, _ string) (Response, error) {
		panic("transport exploded")
	}

	_, err := Call(context.Background(), chat, "pick a move", time.Second)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTransport, TypeOf(err))
	assert.Contains(t, err.Error(), "transport exploded")
}

func TestCallCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Call(ctx, HangingChat(), "pick a move", time.Second)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCanceled, TypeOf(err))
}

func TestCallKeepsClassification(t *testing.T) {
	chat := func(_ context.Context, _ string) (Response, error) {
		return Response{}, NewError(ErrorTypeTimeout, "upstream timed out")
	}

	_, err := Call(context.Background(), chat, "pick a move", time.Second)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}
