package agent

import (
	"strings"
	"testing"
)

func TestRenderHistoryEmpty(t *testing.T) {
	if got := renderHistory(nil); got != "" {
		t.Errorf("empty history should render empty, got %q", got)
	}
	if got := renderHistory([]Turn{}); got != "" {
		t.Errorf("empty history should render empty, got %q", got)
	}
}

func TestRenderHistoryKeepsLastThree(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
		{Role: "assistant", Content: "fourth"},
		{Role: "user", Content: "fifth"},
	}
	got := renderHistory(history)

	if strings.Contains(got, "first") || strings.Contains(got, "second") {
		t.Errorf("older turns should be dropped: %q", got)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != historyContextTurns {
		t.Fatalf("expected %d lines, got %d: %q", historyContextTurns, len(lines), got)
	}
	if lines[0] != "user: third" || lines[1] != "assistant: fourth" || lines[2] != "user: fifth" {
		t.Errorf("unexpected history order: %q", got)
	}
}

func TestRenderHistoryTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("x", historyExcerptCap+50)
	got := renderHistory([]Turn{{Role: "user", Content: long}})

	want := "user: " + strings.Repeat("x", historyExcerptCap) + "..."
	if got != want {
		t.Errorf("long turn not capped: got %d chars", len(got))
	}
}
