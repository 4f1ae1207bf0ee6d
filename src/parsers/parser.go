// Package parsers reads the raw CSV input tables into typed rows.
//
// Every parser validates the file header against the expected schema before
// touching a single data row, so a renamed or missing column fails with
// ErrSchemaMismatch instead of silently mis-joining downstream.
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ErrSchemaMismatch is returned when an input file's header does not carry
// the columns a table parser requires.
var ErrSchemaMismatch = fmt.Errorf("input schema mismatch")

// readAll reads the header plus all records of a CSV stream.
func readAll(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read all CSV records: %w", err)
	}
	return header, records, nil
}

// headerIndex maps lower-cased column names to their positions. Unnamed
// columns (pandas-style leading index columns) are skipped.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if name == "" || strings.HasPrefix(name, "unnamed:") {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// requireColumns checks that every expected column is present, naming the
// first missing one in the error.
func requireColumns(idx map[string]int, table string, expected ...string) error {
	for _, col := range expected {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("%w: table %q is missing column %q", ErrSchemaMismatch, table, col)
		}
	}
	return nil
}

// field returns the value of a named column for one record, or "" when the
// record is too short.
func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
