package profile

import (
	"fmt"
	"strings"

	"ai-agent-platform/pkg/dataset"
)

// FieldSynonyms maps source column headers to canonical question labels.
var FieldSynonyms = map[string]string{
	"Full Name":     "name",
	"Email Address": "email",
	"Phone Number":  "phone",
	"Startup Name":  "startup_name",
}

// Cell values treated as missing, matching common CSV NA markers.
var missingValues = map[string]struct{}{
	"": {}, "nan": {}, "NaN": {}, "-nan": {}, "-NaN": {}, "NA": {}, "N/A": {}, "n/a": {},
	"#N/A": {}, "#NA": {}, "<NA>": {}, "NULL": {}, "null": {}, "None": {},
}

// Record is one historical profile with the subset of questions it answered.
type Record struct {
	ID     int
	Fields map[string]string
}

// LoadRecords builds the record store and question universe from a table.
// Column labels are trimmed and renamed through synonyms; each row yields one
// record holding only its non-missing answers.
func LoadRecords(table *dataset.Table, synonyms map[string]string) ([]Record, *Universe, error) {
	if table == nil || len(table.Columns) == 0 {
		return nil, nil, fmt.Errorf("%w: source has no columns", ErrLoad)
	}

	labels := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		label := strings.TrimSpace(column)
		if canonical, ok := synonyms[label]; ok {
			label = canonical
		}
		labels[i] = label
	}

	universe := NewUniverse(labels)
	if universe.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: source has only blank column labels", ErrLoad)
	}

	records := make([]Record, 0, len(table.Rows))
	for i := range table.Rows {
		fields := make(map[string]string)
		for j, label := range labels {
			if label == "" {
				continue
			}
			if _, filled := fields[label]; filled {
				continue
			}
			value := strings.TrimSpace(table.Cell(i, j))
			if _, missing := missingValues[value]; missing {
				continue
			}
			fields[label] = value
		}
		records = append(records, Record{ID: i, Fields: fields})
	}

	return records, universe, nil
}
