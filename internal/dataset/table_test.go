package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

func TestReadUniquifiesDuplicateHeaders(t *testing.T) {
	table, err := Read(strings.NewReader("rt,rt,spelling\n10,20,kat\n"), "test")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !table.HasColumn("rt") || !table.HasColumn("rt.1") {
		t.Fatalf("expected duplicate header to be uniquified, got %v", table.headers)
	}
	first, ok, err := table.Float(0, "rt")
	if err != nil || !ok || first != 10 {
		t.Fatalf("unexpected rt cell: %v %v %v", first, ok, err)
	}
	second, ok, err := table.Float(0, "rt.1")
	if err != nil || !ok || second != 20 {
		t.Fatalf("unexpected rt.1 cell: %v %v %v", second, ok, err)
	}
}

func TestNullCells(t *testing.T) {
	table, err := Read(strings.NewReader("spelling,rt\nkat,NA\nhond,\nboom,412.5\n"), "test")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for row := 0; row < 2; row++ {
		if _, ok, err := table.Float(row, "rt"); ok || err != nil {
			t.Fatalf("row %d: expected null rt, got ok=%v err=%v", row, ok, err)
		}
	}
	rt, ok, err := table.Float(2, "rt")
	if err != nil || !ok || rt != 412.5 {
		t.Fatalf("unexpected rt: %v %v %v", rt, ok, err)
	}
}

func TestBoolParsing(t *testing.T) {
	table, err := Read(strings.NewReader("flag\nTRUE\n0\nNA\nmaybe\n"), "test")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	v, ok, err := table.Bool(0, "flag")
	if err != nil || !ok || !v {
		t.Fatalf("expected TRUE to parse true, got %v %v %v", v, ok, err)
	}
	v, ok, err = table.Bool(1, "flag")
	if err != nil || !ok || v {
		t.Fatalf("expected 0 to parse false, got %v %v %v", v, ok, err)
	}
	if _, ok, err := table.Bool(2, "flag"); ok || err != nil {
		t.Fatalf("expected NA to be null, got ok=%v err=%v", ok, err)
	}
	if _, _, err := table.Bool(3, "flag"); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}

func TestIntAcceptsFloatForm(t *testing.T) {
	table, err := Read(strings.NewReader("length\n4.0\n"), "test")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	v, ok, err := table.Int(0, "length")
	if err != nil || !ok || v != 4 {
		t.Fatalf("unexpected length: %v %v %v", v, ok, err)
	}
}

func TestRequireMissingColumn(t *testing.T) {
	table, err := Read(strings.NewReader("spelling\nkat\n"), "stimuli")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	err = table.Require("spelling", "rt")
	var missing *model.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "rt" || missing.Table != "stimuli" {
		t.Fatalf("unexpected error fields: %+v", missing)
	}
}

func TestReadFileUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv")
	if err := os.WriteFile(path, []byte("a,b\n\"unterminated\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := ReadFile(path, "broken")
	var unreadable *model.UnreadableFileError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableFileError, got %v", err)
	}
}
