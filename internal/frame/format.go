package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand
// separators. Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier

	if precision == 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	for i, c := range formatted {
		if c == '.' {
			intPart, err := strconv.ParseInt(formatted[:i], 10, 64)
			if err != nil {
				return formatted
			}
			return printer.Sprintf("%d", intPart) + formatted[i:]
		}
	}
	return formatted
}

// FormatCell renders an arbitrary scalar as a table cell. This is the single
// stringify rule used when BigQuery results or spreadsheet values enter a
// Table.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatNumeric returns a copy of the table where every cell that parses as
// a number is reformatted with thousand separators and the given number of
// decimal places. Non-numeric cells pass through untouched.
func FormatNumeric(t *Table, precision int) *Table {
	out := &Table{header: t.header, rows: make([][]string, 0, t.NumRows())}
	for _, row := range t.Rows() {
		formatted := make([]string, len(row))
		for i, cell := range row {
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				formatted[i] = FormatFloat(f, precision)
			} else {
				formatted[i] = cell
			}
		}
		out.rows = append(out.rows, formatted)
	}
	return out
}
