package session

import (
	"strings"
	"testing"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret")

	issuedID, value := m.Issue()
	id, ok := m.Verify(value)
	if !ok {
		t.Fatalf("expected issued value to verify: %s", value)
	}
	if id != issuedID {
		t.Fatalf("expected id %q, got %q", issuedID, id)
	}
	if !strings.HasPrefix(value, id+".") {
		t.Fatalf("unexpected cookie value %q for id %q", value, id)
	}
}

func TestVerifyRejectsTamperedValue(t *testing.T) {
	m := NewManager("test-secret")

	_, value := m.Issue()
	tampered := value[:len(value)-1] + "0"
	if tampered == value {
		tampered = value[:len(value)-1] + "1"
	}
	if _, ok := m.Verify(tampered); ok {
		t.Fatalf("expected tampered value to be rejected")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	_, issued := NewManager("secret-a").Issue()
	if _, ok := NewManager("secret-b").Verify(issued); ok {
		t.Fatalf("expected value signed with another secret to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret")

	for _, value := range []string{"", ".", "abc", "abc.", ".def", "not-a-uuid.deadbeef"} {
		if _, ok := m.Verify(value); ok {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
