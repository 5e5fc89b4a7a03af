package logx

import (
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("bot-0")

	if logger.GetID() != "bot-0" {
		t.Errorf("Expected logger ID 'bot-0', got '%s'", logger.GetID())
	}
}

func TestWithID(t *testing.T) {
	logger := NewLogger("bot-0")
	derived := logger.WithID("bridge")

	if derived.GetID() != "bridge" {
		t.Errorf("Expected derived ID 'bridge', got '%s'", derived.GetID())
	}
	if logger.GetID() != "bot-0" {
		t.Error("WithID must not mutate the original logger")
	}
}

func TestRingCapturesEntries(t *testing.T) {
	start := time.Now().Add(-time.Second)

	logger := NewLogger("ring-test")
	logger.Info("turn %d decided", 3)

	entries := RecentEntries(start)
	found := false
	for i := range entries {
		if entries[i].ID == "ring-test" && strings.Contains(entries[i].Message, "turn 3 decided") {
			found = true
			if entries[i].Level != string(LevelInfo) {
				t.Errorf("Expected INFO level, got %s", entries[i].Level)
			}
		}
	}
	if !found {
		t.Error("Expected ring buffer to contain the logged entry")
	}
}

func TestDebugDomainFiltering(t *testing.T) {
	SetDebug(true, []string{"bridge"})
	defer SetDebug(false, nil)

	if !IsDebugEnabledForDomain("bridge") {
		t.Error("Expected bridge domain to be enabled")
	}
	if IsDebugEnabledForDomain("prompt") {
		t.Error("Expected prompt domain to be disabled")
	}

	SetDebug(true, nil)
	if !IsDebugEnabledForDomain("prompt") {
		t.Error("Expected all domains enabled when no filter is set")
	}
}

func TestDebugDisabledByDefault(t *testing.T) {
	SetDebug(false, nil)

	if IsDebugEnabled() {
		t.Error("Expected debug to be disabled")
	}
	if IsDebugEnabledForDomain("bot") {
		t.Error("Expected all domains disabled when debug is off")
	}
}

func TestErrorfReturnsError(t *testing.T) {
	err := Errorf("decode failed: %s", "bad token")
	if err == nil {
		t.Fatal("Expected non-nil error")
	}
	if !strings.Contains(err.Error(), "bad token") {
		t.Errorf("Expected formatted message, got: %v", err)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}
