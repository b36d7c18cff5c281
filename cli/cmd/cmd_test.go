package cmd

import (
	"testing"
)

// Test command initialization and registration
func TestCommandsRegistered(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	commands := rootCmd.Commands()
	expectedCommands := map[string]bool{
		"analyze":  false,
		"overview": false,
		"nik":      false,
		"export":   false,
		"seed":     false,
	}

	for _, cmd := range commands {
		// Extract command name (handles "nik [nik]" -> "nik")
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

func TestGlobalFlags(t *testing.T) {
	flags := []string{"data", "output", "sources", "from", "to"}
	for _, flagName := range flags {
		if rootCmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected global flag '%s' to be defined", flagName)
		}
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	if analyzeCmd == nil {
		t.Fatal("analyzeCmd should not be nil")
	}

	flags := []string{"rapid-fire-window", "spike-sigma", "top"}
	for _, flagName := range flags {
		if analyzeCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag '%s' to be defined on analyze command", flagName)
		}
	}
}

func TestSeedCommandFlags(t *testing.T) {
	if seedCmd == nil {
		t.Fatal("seedCmd should not be nil")
	}

	flags := []string{"out", "entities", "spread", "bursts", "degradations", "disagreements", "seed"}
	for _, flagName := range flags {
		if seedCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag '%s' to be defined on seed command", flagName)
		}
	}
}

func TestBuildFilter(t *testing.T) {
	sourceList = "DB_CACHE, DUKCAPIL"
	fromDate = "2025-03-01"
	toDate = "2025-03-31"
	defer func() {
		sourceList = "DB_CACHE,DUKCAPIL,BCA"
		fromDate = ""
		toDate = ""
	}()

	f, err := buildFilter()
	if err != nil {
		t.Fatalf("buildFilter() returned error: %v", err)
	}
	if len(f.SourceResults) != 2 {
		t.Errorf("expected 2 sources, got %d", len(f.SourceResults))
	}
	if f.SourceResults[1] != "DUKCAPIL" {
		t.Errorf("sources should be trimmed, got %q", f.SourceResults[1])
	}
	if f.From.IsZero() || f.To.IsZero() {
		t.Error("expected both date bounds to be set")
	}
}

func TestBuildFilterRejectsBadDate(t *testing.T) {
	fromDate = "01-03-2025"
	defer func() { fromDate = "" }()

	if _, err := buildFilter(); err == nil {
		t.Error("expected error for malformed --from date")
	}
}
