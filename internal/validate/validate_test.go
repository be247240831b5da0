package validate

import (
	"errors"
	"testing"
)

func TestRequired(t *testing.T) {
	err := Required(
		FieldValue{Name: "title", Value: "ok"},
		FieldValue{Name: "description", Value: "   "},
	)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "description" {
		t.Fatalf("expected description to fail, got %q", verr.Field)
	}

	if err := Required(FieldValue{Name: "title", Value: "ok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b@sub.example.org"}
	for _, v := range valid {
		if err := Email("email", v); err != nil {
			t.Fatalf("Email(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{"", "not-an-email", "user@", "@example.com", "user@localhost", "user @example.com"}
	for _, v := range invalid {
		if err := Email("email", v); err == nil {
			t.Fatalf("Email(%q) = nil, want error", v)
		}
	}
}

func TestDate(t *testing.T) {
	valid := []string{"2024-02-29", "2025-12-31", "2000-01-01"}
	for _, v := range valid {
		if err := Date("due_date", v); err != nil {
			t.Fatalf("Date(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{"", "2024-02-30", "2023-02-29", "2024-2-5", "2024-13-01", "31-12-2024", "2024/12/31"}
	for _, v := range invalid {
		if err := Date("due_date", v); err == nil {
			t.Fatalf("Date(%q) = nil, want error", v)
		}
	}
}

func TestMinLength(t *testing.T) {
	if err := MinLength("password", "short", 8); err == nil {
		t.Fatalf("expected error for short value")
	}
	if err := MinLength("password", "longenough", 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAllowed(t *testing.T) {
	if got := Allowed("title", "created_at", "title", "due_date"); got != "title" {
		t.Fatalf("got %q", got)
	}
	if got := Allowed("password", "created_at", "title", "due_date"); got != "created_at" {
		t.Fatalf("got %q", got)
	}
}

func TestOrder(t *testing.T) {
	if got := Order("DESC", "asc"); got != "desc" {
		t.Fatalf("got %q", got)
	}
	if got := Order("sideways", "asc"); got != "asc" {
		t.Fatalf("got %q", got)
	}
}
