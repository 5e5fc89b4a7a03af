package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticTacToeRequest() Request {
	return Request{
		Game:      GameInfo{ID: "tic_tac_toe", NumPlayers: 2},
		PlayerID:  1,
		StateText: "...\n.x.\n...",
		Actions: []ActionDesc{
			{ID: 0, Description: "x(0,0)"},
			{ID: 2, Description: "x(0,2)"},
		},
		FirstTurn: true,
	}
}

func TestForGameUnknownFallsBackToGeneric(t *testing.T) {
	s := ForGame("tic_tac_toe")
	require.NotNil(t, s)
	assert.IsType(t, genericStrategy{}, s)
}

func TestForGameLiarsDice(t *testing.T) {
	assert.IsType(t, liarsDiceStrategy{}, ForGame("liars_dice"))
}

func TestGenericPrompt(t *testing.T) {
	got := ForGame("tic_tac_toe").Build(ticTacToeRequest())

	assert.Contains(t, got, "You are playing tic_tac_toe.")
	assert.Contains(t, got, ".x.")
	assert.Contains(t, got, "You are Player 1.")
	assert.Contains(t, got, "0: x(0,0)")
	assert.Contains(t, got, "2: x(0,2)")
	assert.Contains(t, got, "ONLY the action number")
}

func TestGenericPromptDeterministic(t *testing.T) {
	req := ticTacToeRequest()
	s := ForGame("tic_tac_toe")
	assert.Equal(t, s.Build(req), s.Build(req))
}

func TestGenericPromptActionOrder(t *testing.T) {
	got := ForGame("tic_tac_toe").Build(ticTacToeRequest())
	first := strings.Index(got, "0: x(0,0)")
	second := strings.Index(got, "2: x(0,2)")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "actions must be enumerated in the supplied order")
}
