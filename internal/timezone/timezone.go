// Package timezone provides the local-day primitives shared by every
// time-bucketed report. Forecast, streak, and heatmap aggregations must all
// agree on where a user's day begins, so day-key and start-of-day derivation
// live here and nowhere else.
package timezone

import (
	"fmt"
	"time"
)

// dayKeyFormat is the canonical YYYY-MM-DD key used for day bucketing.
const dayKeyFormat = "2006-01-02"

// Parse resolves an IANA timezone identifier (e.g. "America/New_York").
// Empty input and "UTC" resolve to UTC. Invalid identifiers return UTC
// alongside the error.
func Parse(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// DayKey returns the YYYY-MM-DD key for the instant as seen in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayKeyFormat)
}

// StartOfDay returns local midnight of the day containing t, as an absolute
// instant.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the first instant of the following local day, i.e. the
// exclusive upper bound of the day containing t.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1)
}
