package alarm

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// ClockLayout is the stored time-of-day form for alarms.
	ClockLayout = "15:04"
	// TimestampLayout is the stored absolute form for reminders.
	TimestampLayout = "2006-01-02T15:04:05"
)

// Alarm is a recurring notification scoped to a time of day and a set of
// weekdays. Firing never deactivates it; it rings again the next matching day.
type Alarm struct {
	ID        string   `json:"id"`
	Time      string   `json:"time"`
	Days      []string `json:"days"`
	Label     string   `json:"label"`
	SoundFile string   `json:"sound_file"`
	IsActive  bool     `json:"is_active"`
}

// Reminder is a one-shot notification at an absolute timestamp. The checker
// deletes it right after it fires.
type Reminder struct {
	ID        string `json:"id"`
	Datetime  string `json:"datetime"`
	Label     string `json:"label"`
	SoundFile string `json:"sound_file"`
	IsActive  bool   `json:"is_active"`
}

// At parses the reminder's stored timestamp in the local timezone.
func (r Reminder) At() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Datetime, time.Local)
}

// AlarmPatch is a partial update for an alarm. Nil fields stay unchanged.
type AlarmPatch struct {
	Time      *string
	Days      []string
	Label     *string
	SoundFile *string
	IsActive  *bool
}

// ReminderPatch is a partial update for a reminder. Nil fields stay unchanged.
type ReminderPatch struct {
	Datetime  *string
	Label     *string
	SoundFile *string
	IsActive  *bool
}

// ValidationError rejects malformed input at creation or edit time. It is the
// only failure kind meant to reach the end user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// weekdays in canonical order, Monday first like the stored JSON uses.
var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(weekdays))
	for i, d := range weekdays {
		m[strings.ToLower(d)] = i
	}
	return m
}()

// normalizeClock validates a "HH:MM" string and returns it zero-padded, so
// that "9:05" and "09:05" compare equal against the checker's formatted now.
func normalizeClock(s string) (string, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", &ValidationError{Field: "time", Reason: "must be HH:MM, 24-hour"}
	}
	return t.Format(ClockLayout), nil
}

// normalizeTimestamp validates a reminder timestamp, accepting the stored
// layout with or without seconds, and returns the canonical with-seconds form.
func normalizeTimestamp(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(TimestampLayout), nil
		}
	}
	return "", &ValidationError{Field: "datetime", Reason: "must be YYYY-MM-DDTHH:MM:SS"}
}

// normalizeDays canonicalizes weekday names (any case), deduplicates them and
// orders them Monday..Sunday. An empty or unknown name is a validation error.
func normalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, &ValidationError{Field: "days", Reason: "at least one weekday required"}
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		idx, ok := weekdayIndex[strings.ToLower(strings.TrimSpace(d))]
		if !ok {
			return nil, &ValidationError{Field: "days", Reason: fmt.Sprintf("unknown weekday %q", d)}
		}
		seen[idx] = true
	}
	out := make([]string, 0, len(seen))
	for idx := range seen {
		out = append(out, weekdays[idx])
	}
	sort.Slice(out, func(i, j int) bool {
		return weekdayIndex[strings.ToLower(out[i])] < weekdayIndex[strings.ToLower(out[j])]
	})
	return out, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
