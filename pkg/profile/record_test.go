package profile_test

import (
	"strings"
	"testing"

	"ai-agent-platform/pkg/dataset"
	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecords(t *testing.T) {
	table, err := dataset.ParseCSV(strings.NewReader(
		" Full Name ,Email Address,notes,notes\n" +
			"Ada,ada@example.com,nan,first\n" +
			"  ,NaN,  hello  ,\n" +
			"Bob\n",
	))
	require.NoError(t, err)

	records, universe, err := profile.LoadRecords(table, profile.FieldSynonyms)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "email", "notes"}, universe.Labels())
	require.Len(t, records, 3)

	assert.Equal(t, 0, records[0].ID)
	assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com", "notes": "first"}, records[0].Fields)
	assert.Equal(t, map[string]string{"notes": "hello"}, records[1].Fields)
	assert.Equal(t, map[string]string{"name": "Bob"}, records[2].Fields)
}

func TestLoadRecords_Empty(t *testing.T) {
	tests := []struct {
		name  string
		table *dataset.Table
	}{
		{name: "nil table", table: nil},
		{name: "no columns", table: &dataset.Table{}},
		{name: "blank labels", table: &dataset.Table{Columns: []string{" ", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := profile.LoadRecords(tt.table, profile.FieldSynonyms)
			assert.ErrorIs(t, err, profile.ErrLoad)
		})
	}
}

func TestUniverse(t *testing.T) {
	u := profile.NewUniverse([]string{"a", "b", "", "a", "c"})

	assert.Equal(t, 3, u.Len())
	assert.Equal(t, 1, u.Position("b"))
	assert.Equal(t, -1, u.Position("z"))
	assert.Equal(t, []string{"a", "c"}, u.First(5, map[string]struct{}{"b": {}}))
	assert.Equal(t, []string{"a"}, u.First(1, nil))
	assert.Equal(t, "a: 1 c: 3", u.Text(map[string]string{"c": "3", "a": "1"}))
}
