package chat

import "testing"

func TestAppendBoundedEvictsOldest(t *testing.T) {
	const limit = 4

	var history []Turn
	for i := 0; i < limit+3; i++ {
		history = AppendBounded(history, Turn{Role: "user", Content: string(rune('a' + i))}, limit)
		if len(history) > limit {
			t.Fatalf("history exceeded limit after %d appends: %d", i+1, len(history))
		}
	}

	if len(history) != limit {
		t.Fatalf("expected %d turns, got %d", limit, len(history))
	}
	// Старейшие вытеснены с головы, порядок остальных сохранён.
	want := []string{"d", "e", "f", "g"}
	for i, turn := range history {
		if turn.Content != want[i] {
			t.Fatalf("history[%d]: expected %q, got %q", i, want[i], turn.Content)
		}
	}
}

func TestAppendBoundedZeroLimitUnbounded(t *testing.T) {
	var history []Turn
	for i := 0; i < 50; i++ {
		history = AppendBounded(history, Turn{Role: "user", Content: "x"}, 0)
	}
	if len(history) != 50 {
		t.Fatalf("expected unbounded growth with limit 0, got %d", len(history))
	}
}

func TestResetProfilePreservesName(t *testing.T) {
	profile := Profile{
		Name:      "Alice",
		Mood:      "stressed",
		TechStack: []string{"python"},
	}

	reset := ResetProfile(profile, true)
	if reset.Name != "Alice" {
		t.Fatalf("expected name to survive reset, got %q", reset.Name)
	}
	if reset.Mood != "" || len(reset.TechStack) != 0 {
		t.Fatalf("expected other fields cleared, got %+v", reset)
	}

	reset = ResetProfile(profile, false)
	if !reset.IsEmpty() {
		t.Fatalf("expected fully empty profile, got %+v", reset)
	}
}
