package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spielbot/pkg/llm"
)

type captureRecorder struct {
	model, gameID, botID           string
	promptTokens, completionTokens int
	success                        bool
	errorType                      string
	observed                       int
}

func (c *captureRecorder) ObserveRequest(
	model, gameID, botID string,
	promptTokens, completionTokens int,
	success bool,
	errorType string,
	_ time.Duration,
) {
	c.model, c.gameID, c.botID = model, gameID, botID
	c.promptTokens, c.completionTokens = promptTokens, completionTokens
	c.success = success
	c.errorType = errorType
	c.observed++
}

func testLabels() Labels {
	return Labels{Model: "test-model", GameID: "liars_dice", BotID: "bot-0"}
}

func TestMiddlewareRecordsReportedUsage(t *testing.T) {
	rec := &captureRecorder{}
	chat := func(_ context.Context, _ string) (llm.Response, error) {
		return llm.Response{Content: "4", Usage: llm.Usage{PromptTokens: 11, CompletionTokens: 2, TotalTokens: 13}}, nil
	}

	wrapped := llm.Chain(chat, Middleware(rec, testLabels(), nil))
	_, err := wrapped(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.observed)
	assert.Equal(t, "liars_dice", rec.gameID)
	assert.Equal(t, 11, rec.promptTokens)
	assert.Equal(t, 2, rec.completionTokens)
	assert.True(t, rec.success)
	assert.Empty(t, rec.errorType)
}

func TestMiddlewareEstimatesMissingUsage(t *testing.T) {
	rec := &captureRecorder{}
	chat := func(_ context.Context, _ string) (llm.Response, error) {
		return llm.Response{Content: "a reasonably long answer with several words"}, nil
	}

	wrapped := llm.Chain(chat, Middleware(rec, testLabels(), nil))
	_, err := wrapped(context.Background(), "a reasonably long prompt with several words")
	require.NoError(t, err)

	assert.Greater(t, rec.promptTokens, 0, "missing usage should be estimated")
	assert.Greater(t, rec.completionTokens, 0)
}

func TestMiddlewareRecordsFailures(t *testing.T) {
	rec := &captureRecorder{}
	chat := func(_ context.Context, _ string) (llm.Response, error) {
		return llm.Response{}, llm.NewError(llm.ErrorTypeTimeout, "llm call timeout after 1s")
	}

	wrapped := llm.Chain(chat, Middleware(rec, testLabels(), nil))
	_, err := wrapped(context.Background(), "prompt")
	require.Error(t, err)

	assert.False(t, rec.success)
	assert.Equal(t, "timeout", rec.errorType)
	assert.Zero(t, rec.promptTokens, "no token counts for failed calls")
}

func TestMiddlewarePassesErrorsThrough(t *testing.T) {
	cause := errors.New("wire broke")
	chat := func(_ context.Context, _ string) (llm.Response, error) {
		return llm.Response{}, cause
	}

	wrapped := llm.Chain(chat, Middleware(&captureRecorder{}, testLabels(), nil))
	_, err := wrapped(context.Background(), "prompt")
	assert.ErrorIs(t, err, cause)
}

func TestNopRecorder(t *testing.T) {
	// Just exercises the no-op path.
	Nop().ObserveRequest("m", "g", "b", 1, 2, true, "", time.Millisecond)
}
