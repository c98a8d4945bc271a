package domain

import "strings"

const (
	// KeyHeader is the column that uniquely identifies a sample row.
	KeyHeader          = "n.º da Amostra"
	ServiceOrderHeader = "O.S."
	StatusHeader       = "Status"
	StatusDateHeader   = "Data Status"
)

// Column is one spreadsheet column. FieldKey is empty for columns the form
// does not own; those are never written by an update.
type Column struct {
	Header   string
	FieldKey string
}

// Layout is the column order of the sample sheet, A..AH.
var Layout = func() []Column {
	var cols []Column
	for _, f := range Fields() {
		if f.Key == FieldServiceOrder {
			continue
		}
		cols = append(cols, Column{Header: f.Header, FieldKey: f.Key})
	}
	cols = append(cols,
		Column{Header: StatusHeader},
		Column{Header: StatusDateHeader},
		Column{Header: ServiceOrderHeader, FieldKey: FieldServiceOrder},
	)
	return cols
}()

// Headers returns the sheet headers in column order.
func Headers() []string {
	out := make([]string, len(Layout))
	for i, c := range Layout {
		out[i] = c.Header
	}
	return out
}

// ColumnIndex returns the zero-based position of header, or -1.
func ColumnIndex(header string) int {
	for i, c := range Layout {
		if c.Header == header {
			return i
		}
	}
	return -1
}

// LastColumn is the letter of the rightmost layout column.
func LastColumn() string {
	return ColumnLetter(len(Layout) - 1)
}

// ColumnLetter converts a zero-based column index to A1 notation (0 -> A, 26 -> AA).
func ColumnLetter(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}

// IsFormOwned reports whether the form writes the given header.
func IsFormOwned(header string) bool {
	for _, c := range Layout {
		if c.Header == header {
			return c.FieldKey != ""
		}
	}
	return false
}

// Row is a stored spreadsheet row. Position is the 1-based sheet row number.
type Row struct {
	Position int
	Cells    map[string]string
}

func (r Row) Key() string {
	return strings.TrimSpace(r.Cells[KeyHeader])
}

// Cells returns the form values keyed by sheet header, for the form-owned columns.
func (f Form) Cells() map[string]string {
	cells := make(map[string]string)
	for _, c := range Layout {
		if c.FieldKey == "" {
			continue
		}
		v := f[c.FieldKey]
		if c.FieldKey == FieldSampleNumber {
			v = f.SampleNumber()
		}
		cells[c.Header] = v
	}
	return cells
}

// AppendCells returns a full layout row for a new record: form values plus
// empty non-form columns.
func (f Form) AppendCells() map[string]string {
	cells := f.Cells()
	for _, c := range Layout {
		if c.FieldKey == "" {
			cells[c.Header] = ""
		}
	}
	return cells
}

// UpdateCells returns the form-owned cells an update may write. The key is
// left out so an existing row's sample number never changes.
func (f Form) UpdateCells() map[string]string {
	cells := f.Cells()
	delete(cells, KeyHeader)
	return cells
}

// FormFromCells builds a form holding exactly the stored form-owned values.
func FormFromCells(cells map[string]string) Form {
	form := make(Form, len(fieldsByKey))
	for _, c := range Layout {
		if c.FieldKey == "" {
			continue
		}
		form[c.FieldKey] = cells[c.Header]
	}
	return form
}

// Extras returns the stored cells the form does not own, such as Status.
func Extras(cells map[string]string) map[string]string {
	extras := make(map[string]string)
	for h, v := range cells {
		if !IsFormOwned(h) {
			extras[h] = v
		}
	}
	return extras
}
