package bq

import "fmt"

// Binary size thresholds for the processed-bytes estimate.
const (
	mebibyte = 1 << 20
	gibibyte = 1 << 30
)

// FormatBytes renders a processed-bytes estimate the way the estimate
// command prints it: whole bytes below 1 MiB, otherwise MB or GB with two
// decimals.
func FormatBytes(n int64) string {
	switch {
	case n < mebibyte:
		return fmt.Sprintf("%d B", n)
	case n < gibibyte:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mebibyte))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gibibyte))
	}
}
