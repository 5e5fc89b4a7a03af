package llm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// NewOllamaChat returns a ChatFunc backed by a local Ollama server.
// hostURL should be the server URL, e.g. "http://localhost:11434".
func NewOllamaChat(hostURL, model string) ChatFunc {
	parsedURL, err := url.Parse(hostURL)
	if err != nil {
		parsedURL, _ = url.Parse("http://localhost:11434")
	}
	client := api.NewClient(parsedURL, http.DefaultClient)

	return func(ctx context.Context, prompt string) (Response, error) {
		stream := false
		req := &api.ChatRequest{
			Model: model,
			Messages: []api.Message{
				{Role: "user", Content: prompt},
			},
			Stream: &stream,
			Options: map[string]any{
				"num_predict": defaultMaxTokens,
			},
		}

		var last api.ChatResponse
		err := client.Chat(ctx, req, func(resp api.ChatResponse) error {
			last = resp
			return nil
		})
		if err != nil {
			return Response{}, WrapError(ErrorTypeTransport, err, "ollama request failed")
		}

		usage := Usage{
			PromptTokens:     last.PromptEvalCount,
			CompletionTokens: last.EvalCount,
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

		return Response{Content: last.Message.Content, Usage: usage}, nil
	}
}
