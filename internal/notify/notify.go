// Package notify renders firing alarms and reminders to the user: a sound
// through the speaker plus a notice on every configured surface.
package notify

import (
	"errors"
	"log/slog"
	"os/exec"
)

// NoticeSink presents an informational message to the user. Headless runs and
// tests substitute their own implementations.
type NoticeSink interface {
	ShowNotice(title, message string) error
}

// Notifier fans a firing out to the speaker and all notice sinks.
type Notifier struct {
	player *Player
	sinks  []NoticeSink
}

func NewNotifier(player *Player, sinks ...NoticeSink) *Notifier {
	return &Notifier{player: player, sinks: sinks}
}

func (n *Notifier) PlaySound(path string) error {
	return n.player.PlaySound(path)
}

// ShowNotice delivers the message to every sink. A failing sink does not stop
// delivery to the others.
func (n *Notifier) ShowNotice(title, message string) error {
	var errs []error
	for _, s := range n.sinks {
		if err := s.ShowNotice(title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotice writes notices to the log. Always part of the daemon's sink set
// so a firing is observable even with no GUI attached.
type LogNotice struct{}

func (LogNotice) ShowNotice(title, message string) error {
	slog.Info("notice", "title", title, "message", message)
	return nil
}

// DesktopNotice pops a desktop notification via notify-send.
type DesktopNotice struct{}

func (DesktopNotice) ShowNotice(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}
