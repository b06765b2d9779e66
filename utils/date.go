package utils

import (
	"fmt"
	"time"
)

// ParseClock parses a "HH:MM" time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AtOrPastClock reports whether now, in loc, is at or after the given "HH:MM".
func AtOrPastClock(now time.Time, clock string, loc *time.Location) (bool, error) {
	cutoff, err := ParseClock(clock)
	if err != nil {
		return false, err
	}
	local := now.In(loc)
	return local.Hour()*60+local.Minute() >= cutoff, nil
}

func LoadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
