package chat

import "testing"

func TestCleanReplyFenceSpacing(t *testing.T) {
	got := CleanReply("``` python\nx = 1\n```")
	want := "```python\nx = 1\n```"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCleanReplyEmphasis(t *testing.T) {
	if got := CleanReply("this is *important* here"); got != "this is **important** here" {
		t.Fatalf("unexpected emphasis result: %q", got)
	}
	// Уже жирный текст не трогается.
	if got := CleanReply("this is **bold** here"); got != "this is **bold** here" {
		t.Fatalf("bold text was mangled: %q", got)
	}
	// Соседние фрагменты, разделённые одним символом.
	if got := CleanReply("*one* *two*"); got != "**one** **two**" {
		t.Fatalf("adjacent emphasis failed: %q", got)
	}
}

func TestCleanReplyListSpacing(t *testing.T) {
	got := CleanReply("Do this first: 1. install it then more text")
	want := "Do this first:\n\n1. install it then more text"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCleanReplyCollapsesBlankRuns(t *testing.T) {
	got := CleanReply("first\n\n\n\n\nsecond")
	if got != "first\n\nsecond" {
		t.Fatalf("expected collapsed blank run, got %q", got)
	}
}

func TestCleanReplyTrimsAndHandlesEmpty(t *testing.T) {
	if got := CleanReply("  \n hello \n  "); got != "hello" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
	if got := CleanReply(""); got != "" {
		t.Fatalf("expected empty output for empty input, got %q", got)
	}
}

// Ключевое свойство: повторная нормализация ничего не меняет.
func TestCleanReplyIdempotent(t *testing.T) {
	inputs := []string{
		"``` python\nx = 1\n```",
		"this is *important* and *urgent*",
		"steps: 1. one 2. two",
		"a\n\n\n\nb",
		"mixed ``` go\ncode\n``` with *stars* and: 1. lists\n\n\n\nend",
	}
	for _, input := range inputs {
		once := CleanReply(input)
		twice := CleanReply(once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}
