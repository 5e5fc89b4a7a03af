// Package engine defines the game engine surface consumed by the bot.
//
// The bot never implements game rules itself; it is driven by an external
// turn-based engine that exposes the current state, the legal actions for a
// player, and human-readable renderings of both. Any engine satisfying these
// interfaces can host the bot.
package engine

// Action identifies a single move in the engine's action space.
type Action int64

// Game describes a game type independent of any particular playthrough.
type Game interface {
	// ID returns the engine's short identifier for the game, e.g. "liars_dice".
	ID() string

	// NumPlayers returns the number of players in the game.
	NumPlayers() int
}

// State is a snapshot of a game in progress. Implementations are expected to
// render hidden information from the perspective of the observing player,
// the way OpenSpiel-style engines do.
type State interface {
	// LegalActions returns the ordered action ids currently available to player.
	LegalActions(player int) []Action

	// ActionToString renders a single action for player.
	ActionToString(player int, action Action) string

	// String renders the full state.
	String() string
}

// Bot is the contract an agent must satisfy to participate in a match.
// The engine calls Step exactly once per turn of the bot's player and
// InformAction for every action taken by any player.
type Bot interface {
	// Step returns the bot's chosen action for the current state.
	Step(state State) Action

	// Restart resets per-game state for a fresh playthrough.
	Restart()

	// InformAction notifies the bot that player took action in state.
	InformAction(state State, player int, action Action)
}
