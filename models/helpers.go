package models

import (
	"strconv"
)

// ─── shared formatting helpers (package-private) ────────────────────────

func itoa(v int) string      { return strconv.Itoa(v) }
func itoa64(v int64) string  { return strconv.FormatInt(v, 10) }
func utoa64(v uint64) string { return strconv.FormatUint(v, 10) }

// f32toa and f64toa print the shortest decimal that round-trips, so 1.5
// stays "1.5" and 0 stays "0" instead of a fixed-precision "0.000000".
func f32toa(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func f64toa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// CSVRowWriter is the interface every loggable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}
