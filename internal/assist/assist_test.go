package assist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova/internal/alarm"
)

type scriptedListener struct {
	answers []string
	next    int
}

func (l *scriptedListener) Listen(context.Context) (string, error) {
	if l.next >= len(l.answers) {
		return "", errors.New("script exhausted")
	}
	a := l.answers[l.next]
	l.next++
	return a, nil
}

type recordingSpeaker struct {
	lines []string
}

func (s *recordingSpeaker) Speak(text string) error {
	s.lines = append(s.lines, text)
	return nil
}

type cannedFallback struct {
	answer string
	err    error
	asked  []string
}

func (f *cannedFallback) Answer(_ context.Context, text string) (string, error) {
	f.asked = append(f.asked, text)
	return f.answer, f.err
}

type discardSink struct{}

func (discardSink) PlaySound(string) error       { return nil }
func (discardSink) ShowNotice(_, _ string) error { return nil }

func newTestManager(t *testing.T) *alarm.Manager {
	t.Helper()
	store := alarm.NewStore(filepath.Join(t.TempDir(), "alarms.json"))
	store.Load()
	checker := alarm.NewChecker(store, discardSink{}, alarm.DefaultInterval)
	return alarm.NewManager(store, checker, "alarm.wav")
}

func newTestAssistant(t *testing.T, deps Deps) *Assistant {
	t.Helper()
	if deps.Manager == nil {
		deps.Manager = newTestManager(t)
	}
	a := New(deps)
	a.now = func() time.Time {
		return time.Date(2024, 3, 19, 10, 0, 0, 0, time.Local) // a Tuesday
	}
	return a
}

func TestGreeting(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	assert.Equal(t, "Welcome! How can I assist you?", a.Respond(context.Background(), "Hey Nova"))
}

func TestGreetingNeedsWordBoundary(t *testing.T) {
	fb := &cannedFallback{answer: "no idea"}
	a := newTestAssistant(t, Deps{Fallback: fb})
	// "hi" inside "this" must not trigger the greeting.
	assert.Equal(t, "no idea", a.Respond(context.Background(), "this"))
}

func TestTimeAndDate(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	assert.Equal(t, "Current time is 10:00", a.Respond(context.Background(), "what time is it?"))
	assert.Equal(t, "Today's date is 19-03-2024", a.Respond(context.Background(), "what is the date today"))
}

func TestExitRunsHook(t *testing.T) {
	called := false
	a := newTestAssistant(t, Deps{OnExit: func() { called = true }})
	reply := a.Respond(context.Background(), "goodbye")
	assert.Equal(t, "Goodbye! See you soon.", reply)
	assert.True(t, called)
}

func TestSetAlarmConversation(t *testing.T) {
	listener := &scriptedListener{answers: []string{
		"half past 7 in the evening",
		"monday and wednesday",
		"standup",
	}}
	speaker := &recordingSpeaker{}
	a := newTestAssistant(t, Deps{Listener: listener, Speaker: speaker})

	reply := a.Respond(context.Background(), "set alarm")
	assert.Contains(t, reply, "19:30")
	assert.Contains(t, reply, "Monday")
	assert.Contains(t, reply, "Wednesday")

	alarms := a.deps.Manager.Alarms()
	require.Len(t, alarms, 1)
	assert.Equal(t, "19:30", alarms[0].Time)
	assert.Equal(t, []string{"Monday", "Wednesday"}, alarms[0].Days)
	assert.Equal(t, "standup", alarms[0].Label)
	assert.True(t, alarms[0].IsActive)

	// Prompts were spoken before each answer, plus the final reply.
	require.NotEmpty(t, speaker.lines)
	assert.Equal(t, "What time should the alarm ring?", speaker.lines[0])
}

func TestSetAlarmWithoutListener(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "set alarm")
	assert.Contains(t, reply, "set alarm")
	assert.Empty(t, a.deps.Manager.Alarms())
}

func TestRelativeReminder(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "remind me to call mom in 10 minutes")
	assert.Contains(t, reply, "call mom")
	assert.Contains(t, reply, "10:10")

	reminders := a.deps.Manager.Reminders()
	require.Len(t, reminders, 1)
	assert.Equal(t, "call mom", reminders[0].Label)
	assert.Equal(t, "2024-03-19T10:10:00", reminders[0].Datetime)
}

func TestReminderConversation(t *testing.T) {
	listener := &scriptedListener{answers: []string{
		"tomorrow",
		"quarter past five in the afternoon",
		"water the plants",
	}}
	a := newTestAssistant(t, Deps{Listener: listener})

	reply := a.Respond(context.Background(), "set reminder")
	assert.Contains(t, reply, "water the plants")

	reminders := a.deps.Manager.Reminders()
	require.Len(t, reminders, 1)
	assert.Equal(t, "2024-03-20T17:15:00", reminders[0].Datetime)
}

func TestCancelAlarmByLabel(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	_, err := a.deps.Manager.CreateAlarm("07:00", []string{"Monday"}, "standup", "")
	require.NoError(t, err)

	reply := a.Respond(context.Background(), "cancel alarm standup")
	assert.Contains(t, reply, "standup")
	assert.Empty(t, a.deps.Manager.Alarms())
}

func TestCancelAlarmUnknownLabel(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "cancel alarm dentist")
	assert.Equal(t, "I couldn't find an alarm with that label.", reply)
}

func TestListAlarmsEmpty(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	assert.Equal(t, "You have no alarms.", a.Respond(context.Background(), "list alarms"))
	assert.Equal(t, "You have no reminders.", a.Respond(context.Background(), "list reminders"))
}

func TestUnmatchedGoesToFallback(t *testing.T) {
	fb := &cannedFallback{answer: "42"}
	a := newTestAssistant(t, Deps{Fallback: fb})
	assert.Equal(t, "42", a.Respond(context.Background(), "what is the meaning of life"))
	require.Len(t, fb.asked, 1)
	assert.Equal(t, "what is the meaning of life", fb.asked[0])
}

func TestUnmatchedWithoutFallback(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "what is the meaning of life")
	assert.Contains(t, reply, "I'm not sure how to help")
}

func TestFallbackErrorFallsThrough(t *testing.T) {
	fb := &cannedFallback{err: errors.New("api down")}
	a := newTestAssistant(t, Deps{Fallback: fb})
	reply := a.Respond(context.Background(), "what is the meaning of life")
	assert.Contains(t, reply, "I'm not sure how to help")
}

func TestHandlerPanicRecovered(t *testing.T) {
	// Weather is nil, so the handler dereferences a nil client and panics.
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "weather in paris")
	assert.Equal(t, "Sorry, I encountered an error processing your request.", reply)
}

func TestEmptyRequest(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "   ")
	assert.Contains(t, reply, "repeat")
}

type fakeMixer struct {
	calls []string
	err   error
}

func (f *fakeMixer) Increase(context.Context) error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMixer) Decrease(context.Context) error {
	f.calls = append(f.calls, "down")
	return f.err
}

func (f *fakeMixer) Mute(context.Context) error {
	f.calls = append(f.calls, "mute")
	return f.err
}

func (f *fakeMixer) Unmute(context.Context) error {
	f.calls = append(f.calls, "unmute")
	return f.err
}

func TestVolumeCommands(t *testing.T) {
	mixer := &fakeMixer{}
	a := newTestAssistant(t, Deps{Mixer: mixer})
	ctx := context.Background()

	assert.Equal(t, "Volume increased", a.Respond(ctx, "increase volume"))
	assert.Equal(t, "Volume decreased", a.Respond(ctx, "decrease volume"))
	assert.Equal(t, "Volume muted", a.Respond(ctx, "mute volume"))
	// "unmute volume" contains "mute volume" and must still unmute.
	assert.Equal(t, "Volume unmuted", a.Respond(ctx, "unmute volume"))
	assert.Equal(t, []string{"up", "down", "mute", "unmute"}, mixer.calls)
}

func TestVolumeCommandFailure(t *testing.T) {
	mixer := &fakeMixer{err: errors.New("pactl missing")}
	a := newTestAssistant(t, Deps{Mixer: mixer})
	reply := a.Respond(context.Background(), "volume up")
	assert.Equal(t, "Sorry, I couldn't change the volume.", reply)
}

func TestDictation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictation.txt")
	listener := &scriptedListener{answers: []string{
		"dear diary",
		"",
		"today went well",
		"please stop dictation now",
	}}
	a := newTestAssistant(t, Deps{Listener: listener, DictationFile: path})

	reply := a.Respond(context.Background(), "start dictation")
	assert.Equal(t, "Dictation stopped. Your words have been saved.", reply)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dear diary\ntoday went well\n", string(data))
}

func TestDictationWithoutListener(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	reply := a.Respond(context.Background(), "start dictation")
	assert.Contains(t, reply, "voice input")
	assert.NoFileExists(t, "dictation.txt")
}

func TestCheckerCommands(t *testing.T) {
	a := newTestAssistant(t, Deps{})
	t.Cleanup(a.deps.Manager.StopChecker)

	assert.Equal(t, "Alarm checking started.", a.Respond(context.Background(), "start the checker"))
	assert.True(t, a.deps.Manager.CheckerRunning())

	assert.Equal(t, "Alarm checking stopped.", a.Respond(context.Background(), "stop checker"))
	assert.False(t, a.deps.Manager.CheckerRunning())
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, allWeekdays, parseDays("every day please"))
	assert.Equal(t, []string{"Saturday", "Sunday"}, parseDays("on the weekend"))
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, parseDays("weekdays"))
	assert.Equal(t, []string{"Monday", "Friday"}, parseDays("monday and friday"))
	assert.Nil(t, parseDays("whenever"))
}
