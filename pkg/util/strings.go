package util

import "strconv"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// FormatAmount renders a metric value without a fixed precision: integers
// print bare ("50000"), fractions keep their digits ("0.05").
func FormatAmount(v float64) string {
    return strconv.FormatFloat(v, 'f', -1, 64)
}
