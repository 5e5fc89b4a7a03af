// Package metrics provides services for querying aggregated LLM usage data.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// GameMetrics represents aggregated LLM usage for one game across all bots.
type GameMetrics struct {
	GameID           string `json:"game_id"`
	Requests         int64  `json:"requests"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
	TotalTokens      int64  `json:"total_tokens"`
}

// QueryService provides methods to query usage metrics from Prometheus.
type QueryService struct {
	client   api.Client
	queryAPI v1.API
}

// NewQueryService creates a new metrics query service.
func NewQueryService(prometheusURL string) (*QueryService, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &QueryService{
		client:   client,
		queryAPI: v1.NewAPI(client),
	}, nil
}

// GetGameMetrics retrieves aggregated request and token metrics for a game,
// summed over every bot and model that played it.
func (q *QueryService) GetGameMetrics(ctx context.Context, gameID string) (*GameMetrics, error) {
	metrics := &GameMetrics{
		GameID: gameID,
	}

	requestsQuery := fmt.Sprintf(`sum(llm_requests_total{game_id=%q})`, gameID)
	requests, err := q.scalar(ctx, requestsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	metrics.Requests = requests

	promptQuery := fmt.Sprintf(`sum(llm_tokens_total{game_id=%q, type="prompt"})`, gameID)
	metrics.PromptTokens, err = q.scalar(ctx, promptQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompt tokens: %w", err)
	}

	completionQuery := fmt.Sprintf(`sum(llm_tokens_total{game_id=%q, type="completion"})`, gameID)
	metrics.CompletionTokens, err = q.scalar(ctx, completionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion tokens: %w", err)
	}

	metrics.TotalTokens = metrics.PromptTokens + metrics.CompletionTokens
	return metrics, nil
}

// GetGameMetricsByBot retrieves per-bot token metrics for a game.
func (q *QueryService) GetGameMetricsByBot(ctx context.Context, gameID string) (map[string]*GameMetrics, error) {
	result := make(map[string]*GameMetrics)

	botsQuery := fmt.Sprintf(`group by (bot_id) (llm_tokens_total{game_id=%q})`, gameID)
	botsResult, _, err := q.queryAPI.Query(ctx, botsQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query bots: %w", err)
	}

	var botIDs []string
	if vector, ok := botsResult.(model.Vector); ok {
		for _, sample := range vector {
			if botID, ok := sample.Metric["bot_id"]; ok {
				botIDs = append(botIDs, string(botID))
			}
		}
	}

	for _, botID := range botIDs {
		metrics := &GameMetrics{GameID: gameID}

		promptQuery := fmt.Sprintf(`sum(llm_tokens_total{game_id=%q, bot_id=%q, type="prompt"})`, gameID, botID)
		metrics.PromptTokens, err = q.scalar(ctx, promptQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to query prompt tokens for bot %s: %w", botID, err)
		}

		completionQuery := fmt.Sprintf(`sum(llm_tokens_total{game_id=%q, bot_id=%q, type="completion"})`, gameID, botID)
		metrics.CompletionTokens, err = q.scalar(ctx, completionQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to query completion tokens for bot %s: %w", botID, err)
		}

		metrics.TotalTokens = metrics.PromptTokens + metrics.CompletionTokens
		result[botID] = metrics
	}

	return result, nil
}

// scalar runs an instant query expected to yield a single sample.
func (q *QueryService) scalar(ctx context.Context, query string) (int64, error) {
	result, _, err := q.queryAPI.Query(ctx, query, time.Now())
	if err != nil {
		return 0, err //nolint:wrapcheck // Callers wrap with query context
	}
	if vector, ok := result.(model.Vector); ok && len(vector) > 0 {
		return int64(vector[0].Value), nil
	}
	return 0, nil
}
