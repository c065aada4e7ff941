package uuid

import "testing"

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("expected valid UUIDs, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("expected distinct IDs")
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
	if a > b {
		t.Errorf("expected time-ordered IDs, got %q after %q", b, a)
	}
}

func TestParse(t *testing.T) {
	t.Run("canonicalizes", func(t *testing.T) {
		got, err := Parse("0190C0DE-0000-7000-8000-000000000001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "0190c0de-0000-7000-8000-000000000001" {
			t.Errorf("unexpected canonical form %q", got)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := Parse("not-a-uuid"); err == nil {
			t.Fatal("expected error")
		}
		if IsValid("123") {
			t.Error("expected 123 to be invalid")
		}
	})
}
