package bot

import (
	"spielbot/pkg/engine"
	"spielbot/pkg/llm"
)

// Role tags transcript entries.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry: the prompt sent or the raw response text.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ActionRecord is one entry of the episode's action history.
type ActionRecord struct {
	Player int           `json:"player"`
	Action engine.Action `json:"action"`
}

// TurnError is the structured record of the most recent terminal failure.
type TurnError struct {
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
	Attempts    int    `json:"attempts"`
}

// episode is the per-game mutable state owned by one bot instance. It is
// reset wholesale on Restart; only one episode is ever live per bot.
type episode struct {
	history    []ActionRecord
	transcript []Message
	lastError  *TurnError
	usage      llm.Usage
}

func (e *episode) reset() {
	*e = episode{}
}

func (e *episode) recordExchange(prompt, response string, usage llm.Usage) {
	e.transcript = append(e.transcript,
		Message{Role: RoleUser, Content: prompt},
		Message{Role: RoleAssistant, Content: response},
	)
	e.usage.Add(usage)
}

func (e *episode) recordAction(player int, action engine.Action) {
	e.history = append(e.history, ActionRecord{Player: player, Action: action})
}
