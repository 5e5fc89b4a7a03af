// Command spielbot plays a scripted Liar's Dice episode with LLM-backed bots.
//
// The game states are canned, so the demo exercises the full decision
// pipeline (prompt rendering, transport call, retry, parsing, episode
// recording) without an external game engine attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"spielbot/pkg/bot"
	"spielbot/pkg/config"
	"spielbot/pkg/engine"
	"spielbot/pkg/engine/enginetest"
	"spielbot/pkg/llm"
	"spielbot/pkg/llm/middleware/metrics"
	"spielbot/pkg/logx"
	metricsquery "spielbot/pkg/metrics"
	"spielbot/pkg/persistence"
)

func main() {
	var configPath string
	var secretsPath string
	var usageReportURL string
	var turns int
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (defaults used when empty)")
	flag.StringVar(&secretsPath, "secrets", "", "Path to encrypted API key file")
	flag.StringVar(&usageReportURL, "usage-report", "", "Prometheus URL to query for a post-game usage report")
	flag.IntVar(&turns, "turns", 3, "Number of demo turns to play")
	flag.Parse()

	if configPath == "" {
		configPath = os.Getenv("SPIELBOT_CONFIG")
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	logger := logx.NewLogger("main")
	logger.Info("spielbot starting (transport=%s, model=%s)", cfg.LLM.Transport, cfg.LLM.Model)

	chat, err := buildChat(cfg, secretsPath)
	if err != nil {
		log.Fatalf("Failed to build LLM transport: %v", err)
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, logger)
	}

	var recorder metrics.Recorder = metrics.Nop()
	if cfg.Metrics.Enabled {
		recorder = metrics.NewPrometheusRecorder()
	}

	game := &enginetest.Game{GameID: "liars_dice", Players: 2}
	bots := make([]*bot.Bot, game.Players)
	for player := 0; player < game.Players; player++ {
		playerChat := chat
		if cfg.Metrics.Enabled {
			labels := metrics.Labels{
				Model:  cfg.LLM.Model,
				GameID: game.ID(),
				BotID:  fmt.Sprintf("player-%d", player),
			}
			playerChat = llm.Chain(chat, metrics.Middleware(recorder, labels, logger))
		}
		bots[player] = bot.New(game, player, playerChat, bot.Config{
			Seed:  cfg.Bot.Seed + int64(player),
			Retry: cfg.RetryConfig(),
		})
	}

	playDemo(game, bots, turns, logger)

	if cfg.Persistence.Enabled {
		archive(cfg.Persistence.Path, game, bots, logger)
	}

	for _, b := range bots {
		usage := b.TotalUsage()
		logger.Info("player %d usage: prompt=%d completion=%d total=%d",
			b.PlayerID(), usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}

	if usageReportURL != "" {
		reportUsage(usageReportURL, game.ID(), logger)
	}
}

// reportUsage queries Prometheus for the game's aggregated LLM usage. This
// covers all runs scraped by that server, not just the episode above.
func reportUsage(prometheusURL, gameID string, logger *logx.Logger) {
	service, err := metricsquery.NewQueryService(prometheusURL)
	if err != nil {
		logger.Error("failed to create usage query service: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	game, err := service.GetGameMetrics(ctx, gameID)
	if err != nil {
		logger.Error("usage report failed: %v", err)
		return
	}
	logger.Info("game %s totals: requests=%d prompt=%d completion=%d total=%d",
		game.GameID, game.Requests, game.PromptTokens, game.CompletionTokens, game.TotalTokens)

	byBot, err := service.GetGameMetricsByBot(ctx, gameID)
	if err != nil {
		logger.Error("per-bot usage report failed: %v", err)
		return
	}
	for botID, m := range byBot {
		logger.Info("  %s: prompt=%d completion=%d total=%d",
			botID, m.PromptTokens, m.CompletionTokens, m.TotalTokens)
	}
}

// buildChat constructs the transport selected by config.
func buildChat(cfg *config.Config, secretsPath string) (llm.ChatFunc, error) {
	if cfg.LLM.Transport == config.TransportMock {
		return mockChat(), nil
	}
	if cfg.LLM.Transport == config.TransportOllama {
		return llm.NewOllamaChat(cfg.LLM.OllamaHost, cfg.LLM.Model), nil
	}

	apiKey := config.APIKeyFromEnv(cfg.LLM.Transport)
	if apiKey == "" && secretsPath != "" {
		password, err := readPassword(fmt.Sprintf("Password for %s: ", secretsPath))
		if err != nil {
			return nil, err
		}
		apiKey, err = config.ResolveAPIKey(cfg.LLM.Transport, secretsPath, password)
		if err != nil {
			return nil, err
		}
	}
	if apiKey == "" {
		var err error
		apiKey, err = config.ResolveAPIKey(cfg.LLM.Transport, "", "")
		if err != nil {
			return nil, err
		}
	}

	switch cfg.LLM.Transport {
	case config.TransportOpenAI:
		return llm.NewOpenAIChat(apiKey, cfg.LLM.Model), nil
	case config.TransportAnthropic:
		return llm.NewAnthropicChat(apiKey, cfg.LLM.Model), nil
	case config.TransportGemini:
		return llm.NewGeminiChat(apiKey, cfg.LLM.Model), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.LLM.Transport)
	}
}

// mockChat plays a canned line of responses so the demo runs offline: an
// opening bid, a raise, then a Liar call. Prompts end with a numbered action
// list, so echoing an integer drives the parser down its happy path.
func mockChat() llm.ChatFunc {
	script := []string{
		"I will open conservatively. My choice: 0",
		"I can safely raise. My choice: 2",
		"That bid is implausible. My choice: 3",
	}
	var calls int
	var mu sync.Mutex
	return func(_ context.Context, _ string) (llm.Response, error) {
		mu.Lock()
		content := script[calls%len(script)]
		calls++
		mu.Unlock()
		return llm.Response{
			Content: content,
			Usage:   llm.Usage{PromptTokens: 120, CompletionTokens: 12, TotalTokens: 132},
		}, nil
	}
}

func readPassword(promptText string) (string, error) {
	fmt.Fprint(os.Stderr, promptText)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func serveMetrics(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics endpoint listening on %s", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Error("metrics server stopped: %v", err)
	}
}

// playDemo runs a short alternating-turn Liar's Dice exchange on scripted
// state views. Each player sees their own hidden dice; bids accumulate in
// both views as actions are taken.
func playDemo(game *enginetest.Game, bots []*bot.Bot, turns int, logger *logx.Logger) {
	hands := []string{"34512", "21166"}
	bidActions := map[engine.Action]string{
		0: "Bid 2-3 (at least two 3s)",
		1: "Bid 2-5 (at least two 5s)",
		2: "Bid 3-2 (at least three 2s)",
		3: "Call Liar",
	}

	var bids []string
	bidText := func(action engine.Action) string {
		switch action {
		case 0:
			return "2-3"
		case 1:
			return "2-5"
		case 2:
			return "3-2"
		default:
			return "liar"
		}
	}

	for turn := 0; turn < turns; turn++ {
		player := turn % game.Players

		stateText := hands[player]
		for _, bid := range bids {
			stateText += " " + bid
		}
		legal := []engine.Action{0, 1, 2}
		if len(bids) > 0 {
			legal = append(legal, 3)
		}
		state := &enginetest.State{
			Text:         stateText,
			Legal:        map[int][]engine.Action{player: legal},
			Descriptions: bidActions,
		}

		action := bots[player].Step(state)
		if action < 0 {
			logger.Error("player %d had no legal actions on turn %d", player, turn)
			return
		}
		logger.Info("turn %d: player %d chose %s", turn, player, bidActions[action])

		for other, b := range bots {
			if other != player {
				b.InformAction(state, player, action)
			}
		}

		if action == 3 {
			logger.Info("player %d called Liar, episode over", player)
			return
		}
		bids = append(bids, bidText(action))
	}
}

func archive(path string, game *enginetest.Game, bots []*bot.Bot, logger *logx.Logger) {
	store, err := persistence.Open(path)
	if err != nil {
		logger.Error("failed to open episode archive: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, b := range bots {
		rec := persistence.Snapshot(game.ID(), b)
		if err := store.SaveEpisode(ctx, rec); err != nil {
			logger.Error("failed to archive episode for player %d: %v", b.PlayerID(), err)
			continue
		}
		logger.Info("archived episode %s for player %d", rec.ID, b.PlayerID())
	}
}
