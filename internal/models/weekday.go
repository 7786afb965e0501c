package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a recurrence token: one of "Sun" through "Sat".
type Weekday string

const (
	Sunday    Weekday = "Sun"
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
)

// AllWeekdays is in time.Weekday order.
var AllWeekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var weekdayNames = map[string]Weekday{
	"sun": Sunday, "sunday": Sunday,
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
}

// WeekdayOf converts a time.Weekday into its token.
func WeekdayOf(wd time.Weekday) Weekday {
	return AllWeekdays[int(wd)%7]
}

// Time returns the time.Weekday for the token.
func (w Weekday) Time() (time.Weekday, bool) {
	for i, d := range AllWeekdays {
		if d == w {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// Valid reports whether w is one of the seven canonical tokens.
func (w Weekday) Valid() bool {
	_, ok := w.Time()
	return ok
}

// ParseWeekday accepts tokens, full names (any case) and 0..6 with 0 = Sunday.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 {
		return AllWeekdays[n], nil
	}
	return "", fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdays parses a comma-separated list of weekdays. Duplicates are
// dropped and the result is in Sunday-first order. An empty string yields an
// empty list, meaning every day.
func ParseWeekdays(s string) ([]Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return []Weekday{}, nil
	}
	var parsed []Weekday
	for _, part := range strings.Split(s, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, wd)
	}
	return NormalizeWeekdays(parsed), nil
}

// NormalizeWeekdays canonicalises, deduplicates and sorts tokens
// Sunday-first. Unparseable tokens are kept at the end so validation can
// report them.
func NormalizeWeekdays(days []Weekday) []Weekday {
	canon := make([]Weekday, len(days))
	for i, in := range days {
		canon[i] = in
		if wd, err := ParseWeekday(string(in)); err == nil {
			canon[i] = wd
		}
	}

	seen := make(map[Weekday]bool, len(days))
	out := make([]Weekday, 0, len(days))
	for _, d := range AllWeekdays {
		for _, in := range canon {
			if in == d && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	for _, in := range canon {
		if !in.Valid() && !seen[in] {
			seen[in] = true
			out = append(out, in)
		}
	}
	return out
}

// FormatWeekdays renders a recurrence list for display.
func FormatWeekdays(days []Weekday) string {
	if len(days) == 0 || len(days) == 7 {
		return "daily"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}
