package ch

import "testing"

func TestBindPositionalArgs(t *testing.T) {
	got, err := Bind("SELECT * FROM t WHERE a = ? AND b = ?", Int(-5), String("x'y"))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	want := `SELECT * FROM t WHERE a = -5 AND b = 'x\'y'`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBindEscapedQuestionMark(t *testing.T) {
	got, err := Bind("SELECT ?? , ?", Int(1))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got != "SELECT ? , 1" {
		t.Fatalf("got %q", got)
	}
}

func TestBindArgCountMismatch(t *testing.T) {
	if _, err := Bind("SELECT ?"); err == nil {
		t.Fatalf("expected error for missing argument")
	}
	if _, err := Bind("SELECT 1", Int(1)); err == nil {
		t.Fatalf("expected error for unused argument")
	}
}

func TestBindIdentAndArray(t *testing.T) {
	got, err := Bind("SELECT ? FROM ? WHERE x IN ?", Ident("col"), Ident("my`table"), Array(Int(1), Int(2), Int(3)))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	want := "SELECT `col` FROM `my``table` WHERE x IN [1,2,3]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandFields(t *testing.T) {
	got := ExpandFields("INSERT INTO t (?fields) FORMAT RowBinary", []string{"a", "b", "c"})
	want := "INSERT INTO t (`a`,`b`,`c`) FORMAT RowBinary"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandFieldsNoPlaceholder(t *testing.T) {
	got := ExpandFields("SELECT 1", []string{"a"})
	if got != "SELECT 1" {
		t.Fatalf("expected no-op, got %q", got)
	}
}
