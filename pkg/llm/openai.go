package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// NewOpenAIChat returns a ChatFunc backed by the OpenAI Responses API.
func NewOpenAIChat(apiKey, model string) ChatFunc {
	client := openai.NewClient(option.WithAPIKey(apiKey))

	return func(ctx context.Context, prompt string) (Response, error) {
		resp, err := client.Responses.New(ctx, responses.ResponseNewParams{
			Model:           model,
			MaxOutputTokens: openai.Int(defaultMaxTokens),
			Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(prompt)},
		})
		if err != nil {
			return Response{}, WrapError(ErrorTypeTransport, err, "openai request failed")
		}
		if resp == nil {
			return Response{}, NewError(ErrorTypeTransport, "empty response from OpenAI API")
		}

		usage := Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}

		return Response{Content: resp.OutputText(), Usage: usage}, nil
	}
}
