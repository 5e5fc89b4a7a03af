package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"spielbot/pkg/engine"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42)) //nolint:gosec // Deterministic test RNG
}

func TestParseActionFirstInteger(t *testing.T) {
	legal := []engine.Action{3, 5, 12}

	tests := []struct {
		name string
		text string
		want engine.Action
	}{
		{"bare number", "5", 5},
		{"number in sentence", "I will choose 12 because it is safe.", 12},
		{"first of several", "3 or maybe 5", 3},
		{"surrounded by punctuation", "My choice: (5).", 5},
		{"newline padded", "\n  12\n", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAction(tt.text, legal, testRNG())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActionFallback(t *testing.T) {
	legal := []engine.Action{3, 5, 12}

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no integers", "I pass."},
		{"digits inside identifier", "action12 looks good"},
		{"illegal first integer", "99 is my answer"},
		{"overflowing integer", "99999999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAction(tt.text, legal, testRNG())
			assert.Contains(t, legal, got, "fallback must stay inside the legal set")
		})
	}
}

func TestParseActionDeterministicFallback(t *testing.T) {
	legal := []engine.Action{3, 5, 12}

	first := parseAction("no number here", legal, rand.New(rand.NewSource(7)))  //nolint:gosec // test
	second := parseAction("no number here", legal, rand.New(rand.NewSource(7))) //nolint:gosec // test
	assert.Equal(t, first, second, "same seed must give the same fallback")
}
