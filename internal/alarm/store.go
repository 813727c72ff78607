package alarm

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotFound signals an edit or lookup against an unknown id. Callers treat
// it as a no-op, not a failure; the checker may race with human edits.
var ErrNotFound = errors.New("alarm: not found")

// document is the on-disk shape of the store: one JSON file with two flat
// arrays and no cross-references.
type document struct {
	Alarms    []Alarm    `json:"alarms"`
	Reminders []Reminder `json:"reminders"`
}

// Store owns the authoritative alarm and reminder collections and keeps them
// synchronized with a JSON file. Every mutation persists immediately. One
// mutex guards all operations; the checker goroutine and the caller's thread
// both go through it.
type Store struct {
	path string

	mu        sync.Mutex
	alarms    []Alarm
	reminders []Reminder
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the JSON file if present. A missing file means empty state; a
// malformed file is logged and recovered as empty state. Load never fails the
// caller.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read alarms file", "path", s.path, "err", err)
		}
		s.alarms, s.reminders = nil, nil
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("malformed alarms file, starting empty", "path", s.path, "err", err)
		s.alarms, s.reminders = nil, nil
		return
	}
	s.alarms, s.reminders = doc.Alarms, doc.Reminders
}

// Save serializes the current collections to disk.
func (s *Store) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
}

// persistLocked writes the document via a temp file and rename, so a crash
// mid-write leaves the previous file intact. Failures are logged, not
// propagated; the in-memory state stays authoritative.
func (s *Store) persistLocked() {
	doc := document{
		Alarms:    append([]Alarm{}, s.alarms...),
		Reminders: append([]Reminder{}, s.reminders...),
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		slog.Warn("failed to encode alarms file", "err", err)
		return
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		slog.Warn("failed to write alarms file", "path", s.path, "err", err)
		return
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		slog.Warn("failed to write alarms file", "path", s.path, "err", errors.Join(werr, cerr))
		return
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		slog.Warn("failed to replace alarms file", "path", s.path, "err", err)
	}
}

// Alarms returns a copy of all alarms, ordered by id.
func (s *Store) Alarms() []Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Alarm{}, s.alarms...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reminders returns a copy of all reminders, ordered by id.
func (s *Store) Reminders() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Reminder{}, s.reminders...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddAlarm(a Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = append(s.alarms, a)
	s.persistLocked()
}

func (s *Store) AddReminder(r Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append(s.reminders, r)
	s.persistLocked()
}

func (s *Store) FindAlarm(id string) (Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alarms {
		if a.ID == id {
			return a, true
		}
	}
	return Alarm{}, false
}

func (s *Store) FindReminder(id string) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return Reminder{}, false
}

// UpdateAlarm applies an already-validated patch and persists. Returns
// ErrNotFound for an unknown id.
func (s *Store) UpdateAlarm(id string, patch AlarmPatch) (Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID != id {
			continue
		}
		a := &s.alarms[i]
		if patch.Time != nil {
			a.Time = *patch.Time
		}
		if patch.Days != nil {
			a.Days = append([]string{}, patch.Days...)
		}
		if patch.Label != nil {
			a.Label = *patch.Label
		}
		if patch.SoundFile != nil {
			a.SoundFile = *patch.SoundFile
		}
		if patch.IsActive != nil {
			a.IsActive = *patch.IsActive
		}
		s.persistLocked()
		return *a, nil
	}
	return Alarm{}, ErrNotFound
}

// UpdateReminder applies an already-validated patch and persists. Returns
// ErrNotFound for an unknown id.
func (s *Store) UpdateReminder(id string, patch ReminderPatch) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID != id {
			continue
		}
		r := &s.reminders[i]
		if patch.Datetime != nil {
			r.Datetime = *patch.Datetime
		}
		if patch.Label != nil {
			r.Label = *patch.Label
		}
		if patch.SoundFile != nil {
			r.SoundFile = *patch.SoundFile
		}
		if patch.IsActive != nil {
			r.IsActive = *patch.IsActive
		}
		s.persistLocked()
		return *r, nil
	}
	return Reminder{}, ErrNotFound
}

// RemoveAlarm deletes by id; false when the id is unknown.
func (s *Store) RemoveAlarm(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

// RemoveReminder deletes by id; false when the id is unknown.
func (s *Store) RemoveReminder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}
