package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus data rows. Rows may be shorter than Columns;
// missing trailing cells read as empty.
type Table struct {
	Columns []string
	Rows    [][]string
}

func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}

func ParseCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &Table{Columns: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// AppendRecords adds keyed rows, growing Columns for keys not seen yet.
// New columns are appended in lexical order per record.
func (t *Table) AppendRecords(records ...map[string]string) {
	position := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := position[c]; !ok {
			position[c] = i
		}
	}

	for _, rec := range records {
		var fresh []string
		for key := range rec {
			if _, ok := position[key]; !ok {
				fresh = append(fresh, key)
			}
		}
		sort.Strings(fresh)
		for _, key := range fresh {
			position[key] = len(t.Columns)
			t.Columns = append(t.Columns, key)
		}
	}

	for _, rec := range records {
		row := make([]string, len(t.Columns))
		for key, value := range rec {
			row[position[key]] = value
		}
		t.Rows = append(t.Rows, row)
	}
}

// Cell returns the value at row i, column j or "" when the row is short.
func (t *Table) Cell(i, j int) string {
	row := t.Rows[i]
	if j >= len(row) {
		return ""
	}
	return row[j]
}
