package chat

import (
	"reflect"
	"testing"
)

func pythonBlock() []CodeBlock {
	return []CodeBlock{{Language: "python", Code: "print(1)"}}
}

func TestClassifyDebugWithCode(t *testing.T) {
	category := Classify("can you fix this?", pythonBlock())
	if category != CategoryDebug {
		t.Fatalf("expected debug_code, got %s", category)
	}
}

func TestClassifyCreateWithoutCode(t *testing.T) {
	category := Classify("write a function to reverse a string", nil)
	if category != CategoryCreate {
		t.Fatalf("expected create_code, got %s", category)
	}
}

func TestClassifyGeneralChat(t *testing.T) {
	category := Classify("I'm feeling stressed today, any tips?", nil)
	if category != CategoryGeneral {
		t.Fatalf("expected general_chat, got %s", category)
	}
}

// Код без явного намерения уходит в анализ, а не в отладку.
func TestClassifyCodeWithoutIntent(t *testing.T) {
	category := Classify("here is my solution", pythonBlock())
	if category != CategoryAnalyze {
		t.Fatalf("expected analyze_code, got %s", category)
	}
}

func TestClassifyOptimizeWithCode(t *testing.T) {
	category := Classify("this is too slow, can you speed up the loop?", pythonBlock())
	if category != CategoryOptimize {
		t.Fatalf("expected optimize_code, got %s", category)
	}
}

func TestClassifyExplainWithCode(t *testing.T) {
	category := Classify("explain what this does", pythonBlock())
	if category != CategoryExplain {
		t.Fatalf("expected explain_code, got %s", category)
	}
}

func TestClassifyEnhanceWithCode(t *testing.T) {
	category := Classify("add support for negative numbers", pythonBlock())
	if category != CategoryEnhance {
		t.Fatalf("expected enhance_code, got %s", category)
	}
}

// Приоритет: debug побеждает create при наличии кода.
func TestClassifyDebugBeatsCreate(t *testing.T) {
	category := Classify("fix this and write tests", pythonBlock())
	if category != CategoryDebug {
		t.Fatalf("expected debug_code, got %s", category)
	}
}

// Общие формулировки просьбы написать код без списочных ключевых слов.
func TestClassifyCreationVerbPattern(t *testing.T) {
	category := Classify("could you put together a script for backups", nil)
	if category != CategoryCreate {
		t.Fatalf("expected create_code, got %s", category)
	}
}

func TestDetectIntentsOrderAndDeterminism(t *testing.T) {
	text := "write code to fix this bug and make it faster"
	want := []string{"debug", "optimize", "create"}

	for i := 0; i < 5; i++ {
		got := DetectIntents(text)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: expected %v, got %v", i, want, got)
		}
	}
}
