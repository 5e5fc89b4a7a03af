package bot

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"spielbot/pkg/engine"
)

// actionPattern matches the first standalone integer token: digits bounded
// on both sides, never part of a larger identifier or number.
var actionPattern = regexp.MustCompile(`\b(\d+)\b`)

// parseAction extracts a legal action id from raw response text. Absence of
// a usable number is a normal case resolved by a uniform random pick from
// the legal set; this function never fails. legal must be non-empty.
func parseAction(text string, legal []engine.Action, rng *rand.Rand) engine.Action {
	if match := actionPattern.FindStringSubmatch(strings.TrimSpace(text)); match != nil {
		if id, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			action := engine.Action(id)
			for _, candidate := range legal {
				if candidate == action {
					return action
				}
			}
		}
	}

	return legal[rng.Intn(len(legal))]
}
