package metrics

import (
	"context"
	"time"

	"spielbot/pkg/llm"
	"spielbot/pkg/logx"
	"spielbot/pkg/tokens"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Labels identifies the bot whose calls are being measured.
type Labels struct {
	Model  string
	GameID string
	BotID  string
}

// Middleware returns a middleware that records metrics for every chat call.
// When the transport reports no usage counters, token counts are estimated
// with tiktoken so the metrics stay meaningful; episode accounting is not
// affected by the estimate.
func Middleware(recorder Recorder, labels Labels, logger *logx.Logger) llm.Middleware {
	if recorder == nil {
		recorder = Nop()
	}

	return func(next llm.ChatFunc) llm.ChatFunc {
		return func(ctx context.Context, prompt string) (llm.Response, error) {
			start := time.Now()
			resp, err := next(ctx, prompt)
			duration := time.Since(start)

			var promptTokens, completionTokens int
			if err == nil {
				promptTokens = resp.Usage.PromptTokens
				completionTokens = resp.Usage.CompletionTokens
				if resp.Usage.IsZero() {
					promptTokens = tokens.CountSimple(prompt)
					completionTokens = tokens.CountSimple(resp.Content)
				}
			}

			errorType := ""
			if err != nil {
				errorType = llm.TypeOf(err).String()
			}

			recorder.ObserveRequest(
				labels.Model,
				labels.GameID,
				labels.BotID,
				promptTokens,
				completionTokens,
				err == nil,
				errorType,
				duration,
			)

			if logger != nil {
				status := statusSuccess
				if err != nil {
					status = statusError
				}
				logger.Info("LLM request: model=%s game=%s tokens=%d+%d status=%s duration=%dms",
					labels.Model, labels.GameID, promptTokens, completionTokens, status, duration.Milliseconds())
			}

			return resp, err //nolint:wrapcheck // Middleware passes errors through unchanged
		}
	}
}
