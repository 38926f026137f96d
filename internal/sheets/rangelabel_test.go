package sheets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.index), func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnLetter(tt.index))
		})
	}
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "A2:B20001", RangeLabel(2, 20001, 2))
	assert.Equal(t, "A20002:B40001", RangeLabel(20002, 40001, 2))
	assert.Equal(t, "A1:C6", RangeLabel(1, 6, 3))
	assert.Equal(t, "A2:AA10", RangeLabel(2, 10, 27))
}

func TestParseSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare id", "1AbCdEfGh", "1AbCdEfGh", false},
		{
			"full url",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGh/edit#gid=0",
			"1AbCdEfGh",
			false,
		},
		{
			"url without trailing path",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGh",
			"1AbCdEfGh",
			false,
		},
		{
			"url with query",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGh?usp=sharing",
			"1AbCdEfGh",
			false,
		},
		{"empty", "", "", true},
		{"unrelated url", "https://example.com/d/x", "", true},
		{"marker with no id", "https://docs.google.com/spreadsheets/d/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpreadsheetID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
