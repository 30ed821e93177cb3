package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity thresholds on item count. Fixed display constants with no
// backend signal behind them.
const (
	sparseMinCount  = 1
	healthyMinCount = 10
)

// neverText is shown for timestamps the backend has never reported.
const neverText = "Never"

// timestampLayout matches the en-US date-and-time rendering the panel has
// always shown, e.g. "1/2/2026, 3:04:05 PM".
const timestampLayout = "1/2/2006, 3:04:05 PM"

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Severity classifies a cache's health from its item count.
type Severity int

const (
	// SeverityEmpty means the cache holds nothing.
	SeverityEmpty Severity = iota
	// SeveritySparse means the cache holds a handful of items.
	SeveritySparse
	// SeverityHealthy means the cache is well populated.
	SeverityHealthy
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySparse:
		return "sparse"
	case SeverityHealthy:
		return "healthy"
	default:
		return "empty"
	}
}

// SeverityFor classifies count: 0 is empty, 1-9 sparse, 10 and up healthy.
func SeverityFor(count int) Severity {
	switch {
	case count >= healthyMinCount:
		return SeverityHealthy
	case count >= sparseMinCount:
		return SeveritySparse
	default:
		return SeverityEmpty
	}
}

// DisplayLabel renders a cache key as its card heading: underscores become
// spaces and the result is upper-cased, so "market_news" reads "MARKET NEWS".
func DisplayLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// FormatTimestamp renders an optional timestamp for display. Absent or zero
// timestamps read "Never"; present ones use the local date-and-time form.
func FormatTimestamp(t *Timestamp) string {
	if t == nil || t.IsZero() {
		return neverText
	}
	return t.Local().Format(timestampLayout)
}

// FormatDuration renders a validity window in coarse units: under an hour
// as whole minutes, otherwise as whole hours with the remainder discarded.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr", minutes/60)
}

// FormatCount renders an item count with thousand separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatAge renders how long ago t occurred relative to now, in the largest
// sensible unit ("3 minutes ago"). Absent timestamps read "Never".
func FormatAge(t *Timestamp, now time.Time) string {
	if t == nil || t.IsZero() {
		return neverText
	}
	elapsed := now.Sub(t.Time)
	if elapsed < time.Second {
		return "just now"
	}
	return durafmt.Parse(elapsed.Truncate(time.Second)).LimitFirstN(1).String() + " ago"
}
