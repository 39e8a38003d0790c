package cli

import (
	"testing"
	"time"

	"github.com/evrgames/metapipe/internal/config"
)

// Test command initialization and registration
func TestCommandsRegistered(t *testing.T) {
	cfg = config.Default()

	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	commands := rootCmd.Commands()
	expectedCommands := map[string]bool{
		"process": false,
		"seed":    false,
		"migrate": false,
		"init":    false,
	}

	for _, cmd := range commands {
		cmdName := cmd.Use
		for key := range expectedCommands {
			if len(cmdName) >= len(key) && cmdName[:len(key)] == key {
				expectedCommands[key] = true
				break
			}
		}
	}

	for cmdName, found := range expectedCommands {
		if !found {
			t.Errorf("expected command '%s' to be registered with root command", cmdName)
		}
	}
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2021-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
	if !day.Equal(want) {
		t.Errorf("parseDay = %v, want %v", day, want)
	}

	if _, err := parseDay("01/01/2021"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := parseDay(""); err == nil {
		t.Error("expected error for empty date")
	}
}
