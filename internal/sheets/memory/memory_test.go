package memory

import (
	"context"
	"testing"
)

func TestWriteTableReplacesSheet(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows := [][]any{{"Shipping Country"}, {"US"}}
	if err := s.WriteTable(ctx, "Report", rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	rows[1][0] = "FR"

	got, ok := s.Table("Report")
	if !ok || len(got) != 2 || got[1][0] != "US" {
		t.Fatalf("stored table must be a copy, got %v", got)
	}

	if err := s.WriteTable(ctx, "Report", [][]any{{"Shipping Country"}}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if got, _ := s.Table("Report"); len(got) != 1 {
		t.Fatalf("expected table to be replaced, got %v", got)
	}
	if s.Writes() != 2 {
		t.Fatalf("Writes() = %d", s.Writes())
	}
}

func TestWriteTableRequiresSheet(t *testing.T) {
	if err := New().WriteTable(context.Background(), " ", nil); err == nil {
		t.Fatal("expected error for empty sheet name")
	}
	if _, ok := New().Table("missing"); ok {
		t.Fatal("unexpected table")
	}
}
