package domain

import (
	"testing"
	"time"
)

func TestLayout_SpansAtoAH(t *testing.T) {
	if len(Layout) != 34 {
		t.Fatalf("expected 34 columns, got %d", len(Layout))
	}
	if LastColumn() != "AH" {
		t.Errorf("expected last column AH, got %s", LastColumn())
	}
	if Layout[ColumnIndex(KeyHeader)].FieldKey != FieldSampleNumber {
		t.Errorf("key column not owned by sample number field")
	}
	if got := ColumnLetter(ColumnIndex(KeyHeader)); got != "G" {
		t.Errorf("expected key column G, got %s", got)
	}
	if got := ColumnLetter(ColumnIndex(StatusHeader)); got != "AF" {
		t.Errorf("expected Status at AF, got %s", got)
	}
	if got := ColumnLetter(ColumnIndex(ServiceOrderHeader)); got != "AH" {
		t.Errorf("expected O.S. at AH, got %s", got)
	}
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{33, "AH"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		if got := ColumnLetter(tt.index); got != tt.want {
			t.Errorf("ColumnLetter(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestIsFormOwned(t *testing.T) {
	if IsFormOwned(StatusHeader) || IsFormOwned(StatusDateHeader) {
		t.Error("status columns must not be form owned")
	}
	if IsFormOwned("Observação externa") {
		t.Error("unknown columns must not be form owned")
	}
	if !IsFormOwned(KeyHeader) || !IsFormOwned(ServiceOrderHeader) {
		t.Error("key and O.S. columns must be form owned")
	}
}

func TestForm_UpdateCellsSkipKeyAndStatus(t *testing.T) {
	form := NewForm(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	form.Set(FieldSampleNumber, "A-1")

	cells := form.UpdateCells()
	if _, ok := cells[KeyHeader]; ok {
		t.Error("update must not write the key column")
	}
	if _, ok := cells[StatusHeader]; ok {
		t.Error("update must not write Status")
	}
	if _, ok := cells[StatusDateHeader]; ok {
		t.Error("update must not write Data Status")
	}
	if cells["Data da coleta"] != "01/03/2025" {
		t.Errorf("expected collection date, got %q", cells["Data da coleta"])
	}
}

func TestForm_AppendCellsCoverLayout(t *testing.T) {
	form := NewForm(time.Now())
	form.Set(FieldSampleNumber, "  A-2 ")

	cells := form.AppendCells()
	if len(cells) != len(Layout) {
		t.Fatalf("expected %d cells, got %d", len(Layout), len(cells))
	}
	if cells[KeyHeader] != "A-2" {
		t.Errorf("expected trimmed key, got %q", cells[KeyHeader])
	}
	if cells[StatusHeader] != "" || cells[StatusDateHeader] != "" {
		t.Error("status columns must be empty on append")
	}
}

func TestFormFromCells_RoundTrip(t *testing.T) {
	form := NewForm(time.Now())
	form.Set(FieldSampleNumber, "A-3")
	form.Set("fleet", "F-10")
	form.Set("leaks", "Sim")

	cells := form.AppendCells()
	cells[StatusHeader] = "Analisada"

	got := FormFromCells(cells)
	for k, v := range form {
		if got[k] != v {
			t.Errorf("field %s = %q, want %q", k, got[k], v)
		}
	}

	extras := Extras(cells)
	if extras[StatusHeader] != "Analisada" {
		t.Errorf("expected Status extra, got %q", extras[StatusHeader])
	}
	if _, ok := extras[KeyHeader]; ok {
		t.Error("key must not be an extra")
	}
}

func TestRow_Key(t *testing.T) {
	r := Row{Position: 5, Cells: map[string]string{KeyHeader: " 77 "}}
	if r.Key() != "77" {
		t.Errorf("expected trimmed key 77, got %q", r.Key())
	}
}
