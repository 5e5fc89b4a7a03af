package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// liarsDiceStrategy renders Liar's Dice turns: a full rules explanation and a
// dice breakdown on the first turn, a compact bid summary on later turns.
type liarsDiceStrategy struct{}

// diceState is the information extracted from the engine's text rendering of
// a Liar's Dice state observed by one player.
type diceState struct {
	Dice []int    // The observing player's own dice
	Bids []string // Ordered bid history, oldest first
}

var errMalformedState = errors.New("state text does not match liars_dice rendering")

// parseDiceState extracts the player's dice and the bid history from the
// engine's state text. The expected rendering is whitespace-separated fields
// where the first field is the player's dice as a digit run and every later
// field is one bid. A first field that is not a pure digit run means the
// rendering changed; that is reported as an error instead of being read as
// an empty hand.
func parseDiceState(stateText string) (diceState, error) {
	fields := strings.Fields(stateText)
	if len(fields) == 0 {
		return diceState{}, errMalformedState
	}

	diceField := fields[0]
	dice := make([]int, 0, len(diceField))
	for _, r := range diceField {
		if r < '0' || r > '9' {
			return diceState{}, errMalformedState
		}
		dice = append(dice, int(r-'0'))
	}

	return diceState{Dice: dice, Bids: fields[1:]}, nil
}

func (s liarsDiceStrategy) Build(req Request) string {
	state, err := parseDiceState(req.StateText)
	if err != nil {
		// Unrecognized rendering: degrade to the generic strategy rather
		// than presenting an empty hand as truth.
		return genericStrategy{}.Build(req)
	}

	if req.FirstTurn {
		return s.buildFirstTurn(req, state)
	}
	return s.buildLaterTurn(req, state)
}

func (s liarsDiceStrategy) buildFirstTurn(req Request, state diceState) string {
	dicePerPlayer := len(state.Dice)
	totalDice := req.Game.NumPlayers * dicePerPlayer
	wildCount := countFace(state.Dice, 1)

	var b strings.Builder

	b.WriteString("You are playing LIAR'S DICE - A bluffing and deduction game.\n\n")
	b.WriteString("=== GAME RULES ===\n")
	fmt.Fprintf(&b, "Players: %d players\n", req.Game.NumPlayers)
	fmt.Fprintf(&b, "Dice per player: %d dice (values 1-6)\n", dicePerPlayer)
	fmt.Fprintf(&b, "Total dice in game: %d dice\n\n", totalDice)
	b.WriteString("HOW TO PLAY:\n")
	b.WriteString("1. Each player has their own dice (hidden from others)\n")
	b.WriteString("2. Players take turns making BIDS about the total dice across ALL players\n")
	fmt.Fprintf(&b, "3. A bid is \"quantity-face\" (e.g., \"3-5\" means \"at least three 5s exist among all %d dice\")\n", totalDice)
	b.WriteString("4. SPECIAL RULE: 1s are WILD - they count as any face value\n")
	b.WriteString("5. Each bid must be HIGHER than the previous:\n")
	b.WriteString("   - Higher quantity with any face, OR\n")
	b.WriteString("   - Same quantity with higher face value\n")
	b.WriteString("6. Instead of bidding higher, you can call \"Liar\" to challenge the previous bid\n")
	b.WriteString("7. If you call \"Liar\": count all dice; if bid was FALSE, bidder loses; if TRUE, caller loses\n\n")

	b.WriteString("=== YOUR CURRENT SITUATION ===\n")
	fmt.Fprintf(&b, "Your dice: %s\n", joinDice(state.Dice))
	b.WriteString("Your dice count by face:\n")
	for face := 1; face <= 6; face++ {
		count := countFace(state.Dice, face)
		fmt.Fprintf(&b, "  %ds: %d dice", face, count)
		if face == 1 && count > 0 {
			b.WriteString(" (WILD - counts as any face)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nBid history: None (you're making the opening bid)\n\n")
	b.WriteString("YOUR TASK:\n")
	b.WriteString("Make an opening bid. Choose conservatively based on your dice.\n")
	fmt.Fprintf(&b, "Since you have %d wild 1s, you can bid on faces you don't have.\n\n", wildCount)

	writeActionList(&b, req.Actions)
	return b.String()
}

func (s liarsDiceStrategy) buildLaterTurn(req Request, state diceState) string {
	dicePerPlayer := len(state.Dice)
	totalDice := req.Game.NumPlayers * dicePerPlayer

	currentBid := "None"
	bidHistory := "None"
	if len(state.Bids) > 0 {
		currentBid = state.Bids[len(state.Bids)-1]
		bidHistory = strings.Join(state.Bids, " -> ")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "LIAR'S DICE - Player %d's Turn\n\n", req.PlayerID)
	fmt.Fprintf(&b, "Your dice (%d dice): %s\n", dicePerPlayer, joinDice(state.Dice))
	fmt.Fprintf(&b, "Total dice in game: %d\n", totalDice)
	fmt.Fprintf(&b, "Current bid: %s\n\n", currentBid)
	fmt.Fprintf(&b, "Bid history: %s\n\n", bidHistory)
	b.WriteString("Remember: 1s are WILD (count as any face)\n\n")

	writeActionList(&b, req.Actions)
	return b.String()
}

func countFace(dice []int, face int) int {
	count := 0
	for _, d := range dice {
		if d == face {
			count++
		}
	}
	return count
}

func joinDice(dice []int) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, ", ")
}
