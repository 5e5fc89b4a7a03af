package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liarsDiceRequest(stateText string, firstTurn bool) Request {
	return Request{
		Game:      GameInfo{ID: "liars_dice", NumPlayers: 2},
		PlayerID:  0,
		StateText: stateText,
		Actions: []ActionDesc{
			{ID: 4, Description: "bid 1-5"},
			{ID: 5, Description: "bid 1-6"},
			{ID: 12, Description: "Liar"},
		},
		FirstTurn: firstTurn,
	}
}

func TestParseDiceState(t *testing.T) {
	tests := []struct {
		name      string
		stateText string
		wantDice  []int
		wantBids  []string
		wantErr   bool
	}{
		{
			name:      "hand only",
			stateText: "113",
			wantDice:  []int{1, 1, 3},
		},
		{
			name:      "hand with bids",
			stateText: "113 1-5 2-5",
			wantDice:  []int{1, 1, 3},
			wantBids:  []string{"1-5", "2-5"},
		},
		{
			name:      "empty text",
			stateText: "   ",
			wantErr:   true,
		},
		{
			name:      "non-digit hand",
			stateText: "Liar 1-5",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := parseDiceState(tt.stateText)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDice, state.Dice)
			if len(tt.wantBids) > 0 {
				assert.Equal(t, tt.wantBids, state.Bids)
			} else {
				assert.Empty(t, state.Bids)
			}
		})
	}
}

func TestLiarsDiceFirstTurnPrompt(t *testing.T) {
	got := ForGame("liars_dice").Build(liarsDiceRequest("113", true))

	assert.Contains(t, got, "=== GAME RULES ===")
	assert.Contains(t, got, "Total dice in game: 6 dice")
	assert.Contains(t, got, "Your dice: 1, 1, 3")
	assert.Contains(t, got, "1s: 2 dice (WILD - counts as any face)")
	assert.Contains(t, got, "you have 2 wild 1s")
	assert.Contains(t, got, "12: Liar")
	assert.Contains(t, got, "ONLY the action number")
}

func TestLiarsDiceLaterTurnPrompt(t *testing.T) {
	got := ForGame("liars_dice").Build(liarsDiceRequest("113 1-5 2-5", false))

	assert.NotContains(t, got, "=== GAME RULES ===")
	assert.Contains(t, got, "Current bid: 2-5")
	assert.Contains(t, got, "Bid history: 1-5 -> 2-5")
	assert.Contains(t, got, "Your dice (3 dice): 1, 1, 3")
	assert.Contains(t, got, "ONLY the action number")

	// Exactly one bid is presented as current.
	assert.Equal(t, 1, strings.Count(got, "Current bid:"))
}

func TestLiarsDiceMalformedStateFallsBackToGeneric(t *testing.T) {
	got := ForGame("liars_dice").Build(liarsDiceRequest("Liar 1-5", false))

	// Generic rendering, not a fabricated empty hand.
	assert.Contains(t, got, "You are playing liars_dice.")
	assert.NotContains(t, got, "Your dice")
	assert.Contains(t, got, "ONLY the action number")
}
