package resource

import (
	"errors"
	"testing"
)

var testDesc = Descriptor{
	Table:         "assignments",
	KeyColumn:     "id",
	SelectColumns: []string{"id", "title", "due_date"},
	SearchColumns: []string{"title", "description"},
	SortColumns:   []string{"title", "due_date", "created_at"},
	DefaultSort:   "created_at",
	DefaultOrder:  "asc",
}

func TestListQueryDefaults(t *testing.T) {
	query, args := testDesc.ListQuery(ListOptions{})
	want := "SELECT id, title, due_date FROM assignments ORDER BY created_at ASC"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestListQuerySearch(t *testing.T) {
	query, args := testDesc.ListQuery(ListOptions{Search: "lab 3", Sort: "due_date", Order: "desc"})
	want := "SELECT id, title, due_date FROM assignments WHERE (title ILIKE $1 OR description ILIKE $1) ORDER BY due_date DESC"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 1 || args[0] != "%lab 3%" {
		t.Fatalf("args = %v", args)
	}
}

func TestListQuerySortFallback(t *testing.T) {
	// Unlisted sort columns and bogus orders fall back silently.
	query, _ := testDesc.ListQuery(ListOptions{Sort: "password", Order: "sideways"})
	want := "SELECT id, title, due_date FROM assignments ORDER BY created_at ASC"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
}

func TestListQueryBaseFilter(t *testing.T) {
	d := testDesc
	d.BaseFilter = "is_admin = FALSE"
	query, args := d.ListQuery(ListOptions{Search: "ann"})
	want := "SELECT id, title, due_date FROM assignments WHERE is_admin = FALSE AND (title ILIKE $1 OR description ILIKE $1) ORDER BY created_at ASC"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 1 {
		t.Fatalf("args = %v", args)
	}
}

func TestUpdateQuery(t *testing.T) {
	query, args, err := testDesc.UpdateQuery(int64(9), []Field{
		{Column: "title", Value: "New title"},
		{Column: "due_date", Value: "2025-10-01"},
	}, "updated_at")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE assignments SET title = $1, due_date = $2, updated_at = now() WHERE id = $3"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 3 || args[2] != int64(9) {
		t.Fatalf("args = %v", args)
	}
}

func TestUpdateQueryNoTouch(t *testing.T) {
	query, _, err := testDesc.UpdateQuery("t_1", []Field{{Column: "subject", Value: "x"}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE assignments SET subject = $1 WHERE id = $2"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
}

func TestUpdateQueryNoFields(t *testing.T) {
	_, _, err := testDesc.UpdateQuery(int64(9), nil, "updated_at")
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}
