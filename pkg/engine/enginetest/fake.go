// Package enginetest provides scripted Game and State fakes for tests and demos.
package enginetest

import (
	"fmt"

	"spielbot/pkg/engine"
)

// Game is a static engine.Game implementation.
type Game struct {
	GameID  string
	Players int
}

func (g *Game) ID() string {
	return g.GameID
}

func (g *Game) NumPlayers() int {
	return g.Players
}

// State is a scripted engine.State. Text is returned verbatim from String,
// Legal holds per-player action sets, and Descriptions optionally overrides
// the rendering of individual actions.
type State struct {
	Text         string
	Legal        map[int][]engine.Action
	Descriptions map[engine.Action]string
}

func (s *State) LegalActions(player int) []engine.Action {
	return s.Legal[player]
}

func (s *State) ActionToString(_ int, action engine.Action) string {
	if desc, ok := s.Descriptions[action]; ok {
		return desc
	}
	return fmt.Sprintf("action %d", action)
}

func (s *State) String() string {
	return s.Text
}
