package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultMaxTokens bounds completion length for turn decisions. The bot asks
// for a single action id, so a short completion budget is plenty.
const defaultMaxTokens = 1024

// NewAnthropicChat returns a ChatFunc backed by the Anthropic Messages API.
func NewAnthropicChat(apiKey, model string) ChatFunc {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return func(ctx context.Context, prompt string) (Response, error) {
		resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: defaultMaxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return Response{}, WrapError(ErrorTypeTransport, err, "anthropic request failed")
		}
		if resp == nil || len(resp.Content) == 0 {
			return Response{}, NewError(ErrorTypeTransport, "empty response from Anthropic API")
		}

		var content strings.Builder
		for i := range resp.Content {
			block := &resp.Content[i]
			if block.Type == "text" {
				content.WriteString(block.AsText().Text)
			}
		}

		usage := Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

		return Response{Content: content.String(), Usage: usage}, nil
	}
}
