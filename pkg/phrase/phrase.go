// Package phrase maps spoken date and time expressions to the canonical
// YYYY-MM-DD and HH:MM forms the alarm manager accepts. A parse failure is an
// ordinary error; callers fall back to prompting for manual entry.
package phrase

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoMatch reports that the phrase resembles nothing we can parse.
type ErrNoMatch struct {
	Phrase string
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("cannot understand %q", e.Phrase)
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// Date resolves a date phrase relative to now and returns "YYYY-MM-DD".
// Understood: today, tomorrow, day after tomorrow, next week, weekday names
// ("friday" is the next Friday, today included; "next friday" skips a week),
// and explicit dates like "2024-03-20" or "March 20".
func Date(s string, now time.Time) (string, error) {
	p := normalize(s)
	day := func(t time.Time) string { return t.Format("2006-01-02") }

	switch p {
	case "today", "tonight":
		return day(now), nil
	case "tomorrow":
		return day(now.AddDate(0, 0, 1)), nil
	case "day after tomorrow", "the day after tomorrow":
		return day(now.AddDate(0, 0, 2)), nil
	case "next week":
		return day(now.AddDate(0, 0, 7)), nil
	}

	name, skipWeek := p, false
	if rest, ok := strings.CutPrefix(p, "next "); ok {
		name, skipWeek = rest, true
	}
	name = strings.TrimPrefix(name, "on ")
	if wd, ok := weekdayNames[name]; ok {
		ahead := (int(wd) - int(now.Weekday()) + 7) % 7
		if skipWeek && ahead == 0 {
			ahead = 7
		}
		return day(now.AddDate(0, 0, ahead)), nil
	}

	for _, layout := range []string{"2006-01-02", "January 2 2006", "January 2", "2 January"} {
		if t, err := time.ParseInLocation(layout, titleWords(p), now.Location()); err == nil {
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
				if t.Before(now.Truncate(24 * time.Hour)) {
					t = t.AddDate(1, 0, 0)
				}
			}
			return day(t), nil
		}
	}
	return "", &ErrNoMatch{Phrase: s}
}

// Clock resolves a time phrase and returns "HH:MM" (24-hour). Understood:
// "14:30", "7 pm", "seven o'clock", "quarter past five", "half past seven",
// "quarter to nine", "noon", "midnight". Phrases without am/pm pick whichever
// of the two candidate hours comes next after now; if both have already
// passed today, the morning reading wins (the caller pairs it with a date).
func Clock(s string, now time.Time) (string, error) {
	p := normalize(s)

	switch p {
	case "noon", "midday":
		return "12:00", nil
	case "midnight":
		return "00:00", nil
	}

	meridiem := ""
	for _, suffix := range []string{"am", "a m", "in the morning"} {
		if rest, ok := strings.CutSuffix(p, " "+suffix); ok {
			p, meridiem = strings.TrimSpace(rest), "am"
		}
	}
	for _, suffix := range []string{"pm", "p m", "in the evening", "in the afternoon", "at night"} {
		if rest, ok := strings.CutSuffix(p, " "+suffix); ok {
			p, meridiem = strings.TrimSpace(rest), "pm"
		}
	}

	hour, minute, spoken, ok := splitClock(p)
	if !ok {
		return "", &ErrNoMatch{Phrase: s}
	}
	if hour > 23 || minute > 59 {
		return "", &ErrNoMatch{Phrase: s}
	}

	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	default:
		// Only spoken forms are ambiguous; "7:05" is a literal 24-hour time.
		// "twelve" without am/pm reads as noon, so just 1..11 need resolving.
		if spoken && hour >= 1 && hour <= 11 {
			hour = upcomingHour(hour, minute, now)
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// splitClock extracts (hour, minute) from the meridiem-stripped phrase.
// spoken is true for word forms ("half past seven"), false for "HH:MM".
func splitClock(p string) (hour, minute int, spoken, ok bool) {
	p = strings.TrimPrefix(p, "at ")

	if rest, cut := strings.CutPrefix(p, "quarter past "); cut {
		if h, ok := parseHour(rest); ok {
			return h, 15, true, true
		}
		return 0, 0, false, false
	}
	if rest, cut := strings.CutPrefix(p, "half past "); cut {
		if h, ok := parseHour(rest); ok {
			return h, 30, true, true
		}
		return 0, 0, false, false
	}
	if rest, cut := strings.CutPrefix(p, "quarter to "); cut {
		if h, ok := parseHour(rest); ok {
			return (h + 23) % 24, 45, true, true
		}
		return 0, 0, false, false
	}
	if rest, cut := strings.CutSuffix(p, " o'clock"); cut {
		if h, ok := parseHour(rest); ok {
			return h, 0, true, true
		}
		return 0, 0, false, false
	}

	if hh, mm, cut := strings.Cut(p, ":"); cut {
		h, err1 := strconv.Atoi(strings.TrimSpace(hh))
		m, err2 := strconv.Atoi(strings.TrimSpace(mm))
		if err1 == nil && err2 == nil {
			return h, m, false, true
		}
		return 0, 0, false, false
	}
	if h, ok := parseHour(p); ok {
		return h, 0, true, true
	}
	return 0, 0, false, false
}

func parseHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 23 {
		return 0, false
	}
	return n, true
}

// upcomingHour disambiguates an hour spoken without am/pm: between h and h+12
// pick the first still ahead of now today, else fall back to the earlier one.
func upcomingHour(h, m int, now time.Time) int {
	candidates := []int{h % 12, h%12 + 12}
	nowMinutes := now.Hour()*60 + now.Minute()
	for _, c := range candidates {
		if c*60+m > nowMinutes {
			return c
		}
	}
	return candidates[0]
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// titleWords uppercases word initials so month names match time layouts.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
