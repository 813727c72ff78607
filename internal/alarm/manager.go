package alarm

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// Manager is the single entry point the command router and GUI forms use to
// manipulate alarms and reminders and to control the checker lifecycle.
type Manager struct {
	store        *Store
	checker      *Checker
	clock        Clock
	defaultSound string
}

func NewManager(store *Store, checker *Checker, defaultSound string) *Manager {
	return &Manager{
		store:        store,
		checker:      checker,
		clock:        systemClock{},
		defaultSound: defaultSound,
	}
}

// CreateAlarm validates and stores a new weekly alarm. The time is
// canonicalized to zero-padded HH:MM and the weekday names to Monday..Sunday
// form, whatever case the caller supplied.
func (m *Manager) CreateAlarm(clock string, days []string, label, soundFile string) (Alarm, error) {
	normClock, err := normalizeClock(clock)
	if err != nil {
		return Alarm{}, err
	}
	normDays, err := normalizeDays(days)
	if err != nil {
		return Alarm{}, err
	}
	if soundFile == "" {
		soundFile = m.defaultSound
	}
	a := Alarm{
		ID:        uuid.NewString(),
		Time:      normClock,
		Days:      normDays,
		Label:     label,
		SoundFile: soundFile,
		IsActive:  true,
	}
	m.store.AddAlarm(a)
	return a, nil
}

// CreateReminder validates and stores a new one-shot reminder.
func (m *Manager) CreateReminder(datetime, label, soundFile string) (Reminder, error) {
	normAt, err := normalizeTimestamp(datetime)
	if err != nil {
		return Reminder{}, err
	}
	if soundFile == "" {
		soundFile = m.defaultSound
	}
	r := Reminder{
		ID:        uuid.NewString(),
		Datetime:  normAt,
		Label:     label,
		SoundFile: soundFile,
		IsActive:  true,
	}
	m.store.AddReminder(r)
	return r, nil
}

// EditAlarm validates the patch, then applies it. Returns ErrNotFound for an
// unknown id and ValidationError for malformed patch fields.
func (m *Manager) EditAlarm(id string, patch AlarmPatch) (Alarm, error) {
	if patch.Time != nil {
		norm, err := normalizeClock(*patch.Time)
		if err != nil {
			return Alarm{}, err
		}
		patch.Time = &norm
	}
	if patch.Days != nil {
		norm, err := normalizeDays(patch.Days)
		if err != nil {
			return Alarm{}, err
		}
		patch.Days = norm
	}
	return m.store.UpdateAlarm(id, patch)
}

// EditReminder validates the patch, then applies it.
func (m *Manager) EditReminder(id string, patch ReminderPatch) (Reminder, error) {
	if patch.Datetime != nil {
		norm, err := normalizeTimestamp(*patch.Datetime)
		if err != nil {
			return Reminder{}, err
		}
		patch.Datetime = &norm
	}
	return m.store.UpdateReminder(id, patch)
}

// DeleteAlarm reports whether an alarm was removed. Unknown ids are a quiet
// false, never an error.
func (m *Manager) DeleteAlarm(id string) bool { return m.store.RemoveAlarm(id) }

// DeleteReminder reports whether a reminder was removed.
func (m *Manager) DeleteReminder(id string) bool { return m.store.RemoveReminder(id) }

// Alarms lists all alarms in id order.
func (m *Manager) Alarms() []Alarm { return m.store.Alarms() }

// Reminders lists all reminders in id order.
func (m *Manager) Reminders() []Reminder { return m.store.Reminders() }

// StartChecker starts the background poll loop; idempotent.
func (m *Manager) StartChecker() { m.checker.Start() }

// StopChecker stops the poll loop and joins it; idempotent.
func (m *Manager) StopChecker() { m.checker.Stop() }

// CheckerRunning reports the poll loop state.
func (m *Manager) CheckerRunning() bool { return m.checker.Running() }

var rruleWeekdays = map[string]rrule.Weekday{
	"Monday":    rrule.MO,
	"Tuesday":   rrule.TU,
	"Wednesday": rrule.WE,
	"Thursday":  rrule.TH,
	"Friday":    rrule.FR,
	"Saturday":  rrule.SA,
	"Sunday":    rrule.SU,
}

// NextRing computes when the alarm will next fire, as a weekly recurrence
// over its day set. Inactive or unknown alarms have no next ring.
func (m *Manager) NextRing(id string) (time.Time, error) {
	a, ok := m.store.FindAlarm(id)
	if !ok {
		return time.Time{}, ErrNotFound
	}
	if !a.IsActive {
		return time.Time{}, errors.New("alarm is inactive")
	}

	at, err := time.Parse(ClockLayout, a.Time)
	if err != nil {
		return time.Time{}, err
	}
	byday := make([]rrule.Weekday, 0, len(a.Days))
	for _, d := range a.Days {
		byday = append(byday, rruleWeekdays[d])
	}

	now := m.clock.Now()
	// Anchor one week back so the rule set already covers today.
	anchor := time.Date(now.Year(), now.Month(), now.Day()-7,
		at.Hour(), at.Minute(), 0, 0, now.Location())
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byday,
		Dtstart:   anchor,
	})
	if err != nil {
		return time.Time{}, err
	}
	next := rule.After(now, false)
	if next.IsZero() {
		return time.Time{}, errors.New("no upcoming occurrence")
	}
	return next, nil
}
