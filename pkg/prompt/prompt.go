// Package prompt builds turn-decision prompts from engine state.
//
// Rendering is strategy-per-game: a closed registry maps game identifiers to
// strategies, and unknown games always get the generic strategy. Adding a
// game means adding a registry entry. Strategies are pure functions of their
// request.
package prompt

import (
	"fmt"
	"strings"

	"spielbot/pkg/engine"
)

// ActionDesc pairs an action id with its engine rendering.
type ActionDesc struct {
	ID          engine.Action
	Description string
}

// GameInfo carries the static game facts a strategy may use.
type GameInfo struct {
	ID         string
	NumPlayers int
}

// Request is everything a strategy needs to render one turn's prompt.
type Request struct {
	Game      GameInfo
	PlayerID  int
	StateText string
	Actions   []ActionDesc
	FirstTurn bool
}

// Strategy renders a prompt for one turn. Implementations must be
// deterministic: same request, same prompt.
type Strategy interface {
	Build(req Request) string
}

//nolint:gochecknoglobals // Closed dispatch table, extended only at compile time
var registry = map[string]Strategy{
	"liars_dice": liarsDiceStrategy{},
}

// ForGame returns the strategy registered for gameID, or the generic
// strategy when none is registered. Never fails.
func ForGame(gameID string) Strategy {
	if s, ok := registry[gameID]; ok {
		return s
	}
	return genericStrategy{}
}

// genericStrategy renders state text, enumerates legal actions, and asks for
// a single action number. Works for any game.
type genericStrategy struct{}

func (genericStrategy) Build(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are playing %s.\n\n", req.Game.ID)
	fmt.Fprintf(&b, "Current game state:\n%s\n\n", req.StateText)
	fmt.Fprintf(&b, "You are Player %d.\n\n", req.PlayerID)
	writeActionList(&b, req.Actions)

	return b.String()
}

// writeActionList renders the legal action enumeration and the single-token
// answer instruction shared by every strategy.
func writeActionList(b *strings.Builder, actions []ActionDesc) {
	b.WriteString("Legal actions:\n")
	for _, action := range actions {
		fmt.Fprintf(b, "%d: %s\n", action.ID, action.Description)
	}
	b.WriteString("\nChoose one action by responding with ONLY the action number.\nYour choice: ")
}
