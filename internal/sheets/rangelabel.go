package sheets

import (
	"fmt"
	"strings"
)

// alphabetSize is the base of the bijective column numbering.
const alphabetSize = 26

// ColumnLetter converts a 0-based column index to its spreadsheet letter
// label: 0 -> "A", 25 -> "Z", 26 -> "AA". Column numbering is bijective
// base-26, so there is no zero digit and "AA" follows "Z".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}

	var b []byte
	n := index + 1
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%alphabetSize)}, b...)
		n /= alphabetSize
	}
	return string(b)
}

// RangeLabel builds the A1-style label for a block spanning columns A
// through the last of cols columns, between startRow and endRow inclusive.
// Rows are 1-indexed; row 1 holds the header, so data chunks start at row 2.
func RangeLabel(startRow, endRow, cols int) string {
	return fmt.Sprintf("A%d:%s%d", startRow, ColumnLetter(cols-1), endRow)
}

// ParseSpreadsheetID extracts the spreadsheet ID from either a bare ID or a
// full Google Sheets URL (https://docs.google.com/spreadsheets/d/<id>/...).
func ParseSpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty spreadsheet identifier")
	}

	const marker = "/spreadsheets/d/"
	idx := strings.Index(s, marker)
	if idx < 0 {
		if strings.Contains(s, "/") {
			return "", fmt.Errorf("cannot parse spreadsheet ID from %q", s)
		}
		return s, nil
	}

	id := s[idx+len(marker):]
	if cut := strings.IndexAny(id, "/?#"); cut >= 0 {
		id = id[:cut]
	}
	if id == "" {
		return "", fmt.Errorf("cannot parse spreadsheet ID from %q", s)
	}
	return id, nil
}
