// Package dataset reads tabular source files and merges the pipeline tables.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/LauraLarens/Thesis-project/internal/model"
)

// Table holds a parsed tabular file with header-indexed access. Cells equal to
// the empty string or a recognized NA token are treated as null.
type Table struct {
	name    string
	headers []string
	index   map[string]int
	rows    [][]string
}

// ReadFile parses a CSV file into a Table. The name is used in error messages.
func ReadFile(path, name string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &model.UnreadableFileError{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	table, err := Read(file, name)
	if err != nil {
		return nil, &model.UnreadableFileError{Path: path, Err: err}
	}
	return table, nil
}

// Read parses CSV data into a Table.
func Read(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}
	headers := uniquifyHeaders(records[0])
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return &Table{
		name:    name,
		headers: headers,
		index:   index,
		rows:    records[1:],
	}, nil
}

// uniquifyHeaders disambiguates duplicate column names by suffixing later
// occurrences with ".1", ".2", and so on. Columns are never dropped.
func uniquifyHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			out[i] = fmt.Sprintf("%s.%d", h, n)
			continue
		}
		seen[h] = 1
		out[i] = h
	}
	return out
}

// Name returns the table name used in error messages.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a MissingColumnError for the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return &model.MissingColumnError{Table: t.name, Column: col}
		}
	}
	return nil
}

func isNull(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "na", "NaN", "nan", "NULL", "null":
		return true
	default:
		return false
	}
}

func (t *Table) cell(row int, column string) (string, bool) {
	idx, ok := t.index[column]
	if !ok {
		return "", false
	}
	if row < 0 || row >= len(t.rows) || idx >= len(t.rows[row]) {
		return "", false
	}
	value := t.rows[row][idx]
	if isNull(value) {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// String returns the cell value; ok is false for null cells.
func (t *Table) String(row int, column string) (value string, ok bool) {
	return t.cell(row, column)
}

// Float parses the cell as a float; ok is false for null cells.
func (t *Table) Float(row int, column string) (value float64, ok bool, err error) {
	raw, ok := t.cell(row, column)
	if !ok {
		return 0, false, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("table %s row %d column %q: %w", t.name, row+1, column, err)
	}
	return parsed, true, nil
}

// Int parses the cell as an integer; ok is false for null cells.
func (t *Table) Int(row int, column string) (value int, ok bool, err error) {
	raw, ok := t.cell(row, column)
	if !ok {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		// Some exports write integer columns as floats.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false, fmt.Errorf("table %s row %d column %q: %w", t.name, row+1, column, err)
		}
		return int(f), true, nil
	}
	return parsed, true, nil
}

// Bool parses the cell as a boolean; ok is false for null cells.
func (t *Table) Bool(row int, column string) (value bool, ok bool, err error) {
	raw, ok := t.cell(row, column)
	if !ok {
		return false, false, nil
	}
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes":
		return true, true, nil
	case "false", "f", "0", "no":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("table %s row %d column %q: invalid boolean %q", t.name, row+1, column, raw)
	}
}
