package x12

import (
	"strconv"
	"strings"
)

// ParseDate reformats an 8-digit CCYYMMDD value as YYYY-MM-DD. Anything
// else is returned unchanged, so already-formatted dates pass through.
func ParseDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

// ParseTime reformats an HHMM value as HH:MM using the first four
// characters. Shorter input is returned unchanged.
func ParseTime(raw string) string {
	if len(raw) < 4 {
		return raw
	}
	return raw[0:2] + ":" + raw[2:4]
}

// CleanValue strips segment-terminator artifacts and surrounding
// whitespace from a raw element value.
func CleanValue(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "~", ""))
}

// CleanCode strips the qualifier prefix from a composite code, e.g.
// "ABK:K0230" becomes "K0230". Values without a qualifier delimiter are
// returned cleaned but otherwise intact.
func CleanCode(raw string) string {
	v := CleanValue(raw)
	if i := strings.LastIndex(v, ":"); i >= 0 {
		return v[i+1:]
	}
	return v
}

// SafeInt parses a cleaned element as an integer, returning def on empty
// or unparseable input. Coercion failures are never fatal.
func SafeInt(raw string, def int) int {
	v := CleanValue(raw)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// SafeFloat parses a cleaned element as a float, returning def on empty
// or unparseable input.
func SafeFloat(raw string, def float64) float64 {
	v := CleanValue(raw)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
