// Package period maps the public period tokens (1D, 1W, ... MAX) to
// lookback intervals. There is one canonical table; the treemap view
// applies a small override map on top of it, so both call sites share
// the same source of truth.
package period

import (
	"strings"
	"time"
)

// Period is an enumerated lookback token accepted by the public API.
type Period string

const (
	Day1   Period = "1D"
	Week1  Period = "1W"
	Month1 Period = "1M"
	Month3 Period = "3M"
	Month6 Period = "6M"
	Year1  Period = "1Y"
	Year2  Period = "2Y"
	Year5  Period = "5Y"
	Year10 Period = "10Y"
	Max    Period = "MAX"
)

const (
	day      = 24 * time.Hour
	yearDays = 365
)

// Default is the lookback used for unrecognized or missing tokens.
const Default = Month6

// lookbacks is the canonical token table.
var lookbacks = map[Period]time.Duration{
	Day1:   1 * day,
	Week1:  7 * day,
	Month1: 30 * day,
	Month3: 90 * day,
	Month6: 183 * day,
	Year1:  yearDays * day,
	Year2:  2 * yearDays * day,
	Year5:  5 * yearDays * day,
	Year10: 10 * yearDays * day,
	Max:    100 * yearDays * day,
}

// treemapOverrides adjusts tokens whose treemap interval differs from
// the time-series one. 10Y treemaps cover the full history.
var treemapOverrides = map[Period]Period{
	Year10: Max,
}

// Parse normalizes a raw token. Unrecognized values map to Default
// rather than erroring, matching the API's lenient query parameters.
func Parse(raw string) Period {
	p := Period(strings.ToUpper(strings.TrimSpace(raw)))
	if Valid(p) {
		return p
	}
	return Default
}

// Valid reports whether p is a recognized token.
func Valid(p Period) bool {
	_, ok := lookbacks[p]
	return ok
}

// Lookback returns the time-series lookback interval for p.
func (p Period) Lookback() time.Duration {
	if d, ok := lookbacks[p]; ok {
		return d
	}
	return lookbacks[Default]
}

// TreemapLookback returns the treemap lookback interval for p,
// applying the override table first.
func (p Period) TreemapLookback() time.Duration {
	if o, ok := treemapOverrides[p]; ok {
		p = o
	}
	return p.Lookback()
}

// StaleAfter is how far an instrument's latest report may trail the
// dataset's latest report date before it is treated as delisted and
// excluded from rankings.
const StaleAfter = 183 * day
