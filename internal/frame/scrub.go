package frame

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// zeroWidthSpace sneaks into spreadsheet cells via copy-paste and survives
// CSV round-trips while breaking equality checks downstream.
const zeroWidthSpace = '​'

// invisibleToSpace maps the zero-width space and every Unicode whitespace
// rune to a plain space so runs can be collapsed afterwards.
//
//nolint:gochecknoglobals // Stateless transformer, safe to share.
var invisibleToSpace = runes.Map(func(r rune) rune {
	if r == zeroWidthSpace || unicode.IsSpace(r) {
		return ' '
	}
	return r
})

// ScrubCell collapses runs of whitespace and zero-width spaces into a single
// space and trims the result.
func ScrubCell(s string) string {
	mapped, _, err := transform.String(invisibleToSpace, s)
	if err != nil {
		mapped = s
	}
	return strings.Join(strings.Fields(mapped), " ")
}

// Scrub returns a copy of the table with every cell and header scrubbed.
func Scrub(t *Table) *Table {
	header := make([]string, t.NumCols())
	for i, h := range t.Header() {
		header[i] = ScrubCell(h)
	}

	out := &Table{header: header, rows: make([][]string, 0, t.NumRows())}
	for _, row := range t.Rows() {
		clean := make([]string, len(row))
		for i, cell := range row {
			clean[i] = ScrubCell(cell)
		}
		out.rows = append(out.rows, clean)
	}
	return out
}
