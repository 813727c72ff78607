package alarm

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the poll granularity inherited from the original design.
const DefaultInterval = 30 * time.Second

// Clock supplies wall-clock time; swapped for a fake in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Sink renders a firing entity to the user. Implementations must be safe to
// call from the checker goroutine.
type Sink interface {
	PlaySound(path string) error
	ShowNotice(title, message string) error
}

// Checker is the background poll loop. Every interval it evaluates the store
// against the current wall-clock time: due alarms ring (at most once per
// matching minute), due reminders ring and are deleted. It holds no entity
// state across ticks beyond the last-fired guard.
type Checker struct {
	store    *Store
	sink     Sink
	clock    Clock
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	// lastFired maps alarm id to the "YYYY-MM-DD HH:MM" minute it last rang,
	// so a 30s poll cannot ring the same alarm twice within one minute.
	lastFired map[string]string
}

func NewChecker(store *Store, sink Sink, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Checker{
		store:     store,
		sink:      sink,
		clock:     systemClock{},
		interval:  interval,
		lastFired: make(map[string]string),
	}
}

// Start launches the poll loop. Starting a running checker is a no-op.
func (c *Checker) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.loop(c.stop, c.done)
	slog.Info("checker started", "interval", c.interval)
}

// Stop signals the loop and blocks until it has fully exited, so process
// shutdown is deterministic. Stopping a stopped checker is a no-op.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.stop)
	<-c.done
	c.running = false
	slog.Info("checker stopped")
}

// Running reports the loop state.
func (c *Checker) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Checker) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Tick(c.clock.Now())
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Tick(c.clock.Now())
		}
	}
}

// Tick runs one evaluation pass: alarms first, then reminders, each kind in
// id order. A failing notification is logged and never skips the remaining
// due entities.
func (c *Checker) Tick(now time.Time) {
	c.checkAlarms(now)
	c.checkReminders(now)
}

func (c *Checker) checkAlarms(now time.Time) {
	minute := now.Format(ClockLayout)
	day := now.Weekday().String()
	stamp := now.Format("2006-01-02 15:04")

	alarms := c.store.Alarms()

	// Drop guard entries for alarms that no longer exist, so the map stays
	// bounded by the live alarm count.
	live := make(map[string]bool, len(alarms))
	for _, a := range alarms {
		live[a.ID] = true
	}
	for id := range c.lastFired {
		if !live[id] {
			delete(c.lastFired, id)
		}
	}

	for _, a := range alarms {
		if !a.IsActive {
			continue
		}
		if a.Time != minute || !containsDay(a.Days, day) {
			continue
		}
		if c.lastFired[a.ID] == stamp {
			continue
		}
		c.lastFired[a.ID] = stamp
		c.fire(a.SoundFile, "Alarm", "Alarm: "+a.Label)
	}
}

func (c *Checker) checkReminders(now time.Time) {
	for _, r := range c.store.Reminders() {
		if !r.IsActive {
			continue
		}
		at, err := r.At()
		if err != nil {
			slog.Warn("reminder has unparseable datetime, skipping", "id", r.ID, "datetime", r.Datetime)
			continue
		}
		if at.After(now) {
			continue
		}
		c.fire(r.SoundFile, "Reminder", "Reminder: "+r.Label)
		c.store.RemoveReminder(r.ID)
	}
}

func (c *Checker) fire(sound, title, message string) {
	if err := c.sink.PlaySound(sound); err != nil {
		slog.Warn("failed to play notification sound", "sound", sound, "err", err)
	}
	if err := c.sink.ShowNotice(title, message); err != nil {
		slog.Warn("failed to show notice", "title", title, "err", err)
	}
}
