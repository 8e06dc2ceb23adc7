package catalog

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const day = 24 * time.Hour

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: 30 * day, Format: "%d days %s", DivBy: day},
	{D: 60 * day, Format: "1 month %s", DivBy: 1},
	{D: 365 * day, Format: "%d months %s", DivBy: 30 * day},
	{D: 2 * 365 * day, Format: "1 year %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: 365 * day},
}

// Humanize renders t relative to now, e.g. "3 days ago".
func Humanize(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}

// HumanizeString parses an RFC 3339 timestamp and renders it relative to now.
// Unparsable input is returned unchanged.
func HumanizeString(s string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return Humanize(t, now)
}
