package llm

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// NewGeminiChat returns a ChatFunc backed by the Google Gemini API.
// Client creation needs a context, so it is deferred to the first call.
func NewGeminiChat(apiKey, model string) ChatFunc {
	var (
		once   sync.Once
		client *genai.Client
		initEr error
	)

	return func(ctx context.Context, prompt string) (Response, error) {
		once.Do(func() {
			client, initEr = genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
		})
		if initEr != nil {
			return Response{}, WrapError(ErrorTypeTransport, initEr, "gemini client setup failed")
		}

		config := &genai.GenerateContentConfig{
			MaxOutputTokens: defaultMaxTokens,
		}
		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
		if err != nil {
			return Response{}, WrapError(ErrorTypeTransport, err, "gemini request failed")
		}
		if result == nil {
			return Response{}, NewError(ErrorTypeTransport, "empty response from Gemini API")
		}

		var usage Usage
		if result.UsageMetadata != nil {
			usage = Usage{
				PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			}
		}

		return Response{Content: result.Text(), Usage: usage}, nil
	}
}
