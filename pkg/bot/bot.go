// Package bot implements the LLM-backed game bot: per-turn decision
// orchestration, episode bookkeeping, and response parsing.
//
// A Bot is driven synchronously by a turn-based engine through the
// engine.Bot contract. Each Step builds a prompt from the current state,
// calls the language model through a retrying, timeout-bounded bridge,
// parses the response into a legal action, and records the turn. Every
// failure mode resolves to a uniformly random legal action drawn from the
// bot's private seeded generator; Step never fails and never returns an
// illegal action.
//
// A Bot is not safe for concurrent use. The engine must call Step, Restart,
// and InformAction from a single turn-sequential loop.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"spielbot/pkg/engine"
	"spielbot/pkg/llm"
	"spielbot/pkg/logx"
	"spielbot/pkg/prompt"
)

// turnPhase names a state of the per-turn decision machine.
type turnPhase string

const (
	phaseBuildPrompt turnPhase = "BUILD_PROMPT"
	phaseCallLLM     turnPhase = "CALL_LLM"
	phaseParseAction turnPhase = "PARSE_ACTION"
	phaseFallback    turnPhase = "FALLBACK"
	phaseRecord      turnPhase = "RECORD"
	phaseDone        turnPhase = "DONE"
)

// Config carries the per-bot decision settings.
type Config struct {
	Seed  int64 // Seed for the private fallback RNG
	Retry llm.RetryConfig
}

// Bot is an LLM-backed player for a synchronous turn-based engine.
type Bot struct {
	game     engine.Game
	playerID int
	caller   *llm.Caller
	strategy prompt.Strategy
	rng      *rand.Rand
	logger   *logx.Logger
	ep       episode
}

var _ engine.Bot = (*Bot)(nil)

// New creates a bot for playerID in game, deciding moves through chat.
func New(game engine.Game, playerID int, chat llm.ChatFunc, cfg Config) *Bot {
	logger := logx.NewLogger(fmt.Sprintf("bot-%d", playerID))
	return &Bot{
		game:     game,
		playerID: playerID,
		caller:   llm.NewCaller(chat, cfg.Retry, logger),
		strategy: prompt.ForGame(game.ID()),
		rng:      rand.New(rand.NewSource(cfg.Seed)), //nolint:gosec // Reproducible fallback selection, not crypto
		logger:   logger,
	}
}

// Step decides the bot's action for the current state. It blocks until a
// decision is made and always returns a member of the state's legal action
// set for the bot's player.
func (b *Bot) Step(state engine.State) engine.Action {
	return b.StepContext(context.Background(), state)
}

// StepContext is Step with a caller-supplied context. Cancellation aborts
// pending LLM calls; the decision still resolves to a legal action.
func (b *Bot) StepContext(ctx context.Context, state engine.State) engine.Action {
	legal := state.LegalActions(b.playerID)
	if len(legal) == 0 {
		// Engine contract violation; nothing sensible to return.
		b.logger.Error("step called with no legal actions for player %d", b.playerID)
		return -1
	}

	var (
		promptText string
		response   llm.Response
		action     engine.Action
	)

	phase := phaseBuildPrompt
	for phase != phaseDone {
		switch phase {
		case phaseBuildPrompt:
			promptText = b.buildPrompt(state, legal)
			phase = phaseCallLLM

		case phaseCallLLM:
			var err error
			response, err = b.caller.Call(ctx, promptText)
			if err != nil {
				b.recordFailure(promptText, err)
				phase = phaseFallback
				break
			}
			b.ep.recordExchange(promptText, response.Content, response.Usage)
			phase = phaseParseAction

		case phaseParseAction:
			action = parseAction(response.Content, legal, b.rng)
			phase = phaseRecord

		case phaseFallback:
			action = legal[b.rng.Intn(len(legal))]
			phase = phaseRecord

		case phaseRecord:
			b.ep.recordAction(b.playerID, action)
			phase = phaseDone

		case phaseDone:
		}
	}

	b.logger.DebugDomain("bot", "turn decided: action=%d transcript=%d", action, len(b.ep.transcript))
	return action
}

// Restart resets all episode state for a new game.
func (b *Bot) Restart() {
	b.ep.reset()
}

// InformAction records an action taken by any player in the match.
func (b *Bot) InformAction(_ engine.State, player int, action engine.Action) {
	b.ep.recordAction(player, action)
}

// buildPrompt renders this turn's prompt via the game's strategy.
func (b *Bot) buildPrompt(state engine.State, legal []engine.Action) string {
	actions := make([]prompt.ActionDesc, len(legal))
	for i, action := range legal {
		actions[i] = prompt.ActionDesc{
			ID:          action,
			Description: state.ActionToString(b.playerID, action),
		}
	}

	return b.strategy.Build(prompt.Request{
		Game:      prompt.GameInfo{ID: b.game.ID(), NumPlayers: b.game.NumPlayers()},
		PlayerID:  b.playerID,
		StateText: state.String(),
		Actions:   actions,
		FirstTurn: len(b.ep.transcript) == 0,
	})
}

// recordFailure folds a terminal retry failure into the episode.
func (b *Bot) recordFailure(promptText string, err error) {
	turnErr := &TurnError{
		Prompt:      promptText,
		Description: err.Error(),
	}
	var exhausted *llm.ExhaustedError
	if errors.As(err, &exhausted) {
		turnErr.Attempts = exhausted.Attempts
	}
	b.ep.lastError = turnErr
}

// PlayerID returns the player this bot acts as.
func (b *Bot) PlayerID() int {
	return b.playerID
}

// Conversation returns a copy of the episode transcript.
func (b *Bot) Conversation() []Message {
	out := make([]Message, len(b.ep.transcript))
	copy(out, b.ep.transcript)
	return out
}

// History returns a copy of the episode action history.
func (b *Bot) History() []ActionRecord {
	out := make([]ActionRecord, len(b.ep.history))
	copy(out, b.ep.history)
	return out
}

// LastError returns the most recent terminal failure, or nil.
func (b *Bot) LastError() *TurnError {
	if b.ep.lastError == nil {
		return nil
	}
	errCopy := *b.ep.lastError
	return &errCopy
}

// TotalUsage returns cumulative token usage for the episode.
func (b *Bot) TotalUsage() llm.Usage {
	return b.ep.usage
}
