package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"nova/internal/alarm"
	"nova/pkg/phrase"
)

var musicLinks = []string{
	"https://www.youtube.com/watch?v=1G4isv_Fylg",
	"https://www.youtube.com/watch?v=pElk1ShPrcE",
	"https://www.youtube.com/watch?v=1cDoRqPnCXU",
}

func (a *Assistant) handleGreeting(context.Context, string) string {
	return "Welcome! How can I assist you?"
}

func (a *Assistant) handleExit(context.Context, string) string {
	if a.deps.OnExit != nil {
		a.deps.OnExit()
	}
	return "Goodbye! See you soon."
}

func (a *Assistant) handleTime(context.Context, string) string {
	return "Current time is " + a.now().Format("15:04")
}

func (a *Assistant) handleDate(context.Context, string) string {
	return "Today's date is " + a.now().Format("02-01-2006")
}

func (a *Assistant) handlePlayMusic(context.Context, string) string {
	if a.deps.Launcher != nil {
		if err := a.deps.Launcher.OpenURL(musicLinks[rand.Intn(len(musicLinks))]); err != nil {
			slog.Warn("failed to open music link", "err", err)
		}
	}
	return "Playing Music!"
}

func (a *Assistant) searchHandler(platform string, prefixes ...string) func(context.Context, string) string {
	return func(_ context.Context, request string) string {
		query := request
		for _, p := range prefixes {
			query = strings.ReplaceAll(query, p, "")
		}
		query = strings.TrimSpace(query)
		if query == "" {
			return "What should I search for?"
		}
		if err := a.deps.Launcher.Search(query, platform); err != nil {
			slog.Warn("search failed", "platform", platform, "err", err)
			return fmt.Sprintf("Sorry, I couldn't search %s right now.", platform)
		}
		return fmt.Sprintf("Searching %s for %s", platform, query)
	}
}

func (a *Assistant) handleOpenApp(_ context.Context, request string) string {
	idx := strings.Index(request, "open ")
	name := strings.TrimSpace(request[idx+len("open "):])
	if name == "" {
		return "Which application should I open?"
	}
	if err := a.deps.Launcher.OpenApp(name); err != nil {
		return "Sorry, I couldn't find that application."
	}
	return "Opening " + name
}

func (a *Assistant) handleWeather(ctx context.Context, request string) string {
	stop := map[string]bool{
		"what's": true, "whats": true, "what": true, "is": true, "the": true,
		"weather": true, "like": true, "in": true, "today": true, "right": true,
		"now": true, "tell": true, "me": true,
	}
	var words []string
	for _, w := range strings.Fields(strings.Map(stripPunct, request)) {
		if !stop[w] {
			words = append(words, w)
		}
	}
	city := strings.Join(words, " ")

	if city == "" {
		answer, ok := a.ask(ctx, "Which city's weather would you like to know?")
		if !ok {
			return "I couldn't get the city name."
		}
		city = answer
	}

	report, err := a.deps.Weather.Current(ctx, city)
	if err != nil {
		slog.Warn("weather lookup failed", "city", city, "err", err)
	}
	return report
}

func (a *Assistant) handleNews(ctx context.Context, request string) string {
	topic := ""
	if _, after, ok := strings.Cut(request, "news about "); ok {
		topic = strings.TrimSpace(after)
	}
	report, err := a.deps.News.Headlines(ctx, topic)
	if err != nil {
		slog.Warn("news lookup failed", "err", err)
	}
	return report
}

func (a *Assistant) handleJoke(ctx context.Context, _ string) string {
	return a.deps.Jokes.Tell(ctx, a.deps.Language)
}

func (a *Assistant) handleEmail(ctx context.Context, _ string) string {
	to, ok := a.ask(ctx, "Who should I send it to?")
	if !ok {
		return "Tell me like: send email, and I will ask for the recipient, subject and message."
	}
	if addr, found := a.deps.Contacts[to]; found {
		to = addr
	}
	subject, ok := a.ask(ctx, "What is the subject?")
	if !ok {
		return "I couldn't get the subject."
	}
	body, ok := a.ask(ctx, "What should the message say?")
	if !ok {
		return "I couldn't get the message."
	}
	if err := a.deps.Mailer.Send(to, subject, body); err != nil {
		slog.Error("email send failed", "to", to, "err", err)
		return "Sorry, I couldn't send the email."
	}
	return fmt.Sprintf("Email sent to %s with subject %q.", to, subject)
}

func (a *Assistant) handleWhatsApp(ctx context.Context, _ string) string {
	number, ok := a.ask(ctx, "What number should I message?")
	if !ok {
		return "Tell me like: send a whatsapp message, and I will ask for the number and text."
	}
	text, ok := a.ask(ctx, "What should it say?")
	if !ok {
		return "I couldn't get the message."
	}
	if err := a.deps.Launcher.WhatsApp(number, text); err != nil {
		slog.Warn("whatsapp open failed", "err", err)
		return "Sorry, I couldn't open WhatsApp for that number."
	}
	return "Opening WhatsApp with your message."
}

func (a *Assistant) handleSetAlarm(ctx context.Context, _ string) string {
	clockPhrase, ok := a.ask(ctx, "What time should the alarm ring?")
	if !ok {
		return "Tell me like: set alarm, and I will ask for the time and days."
	}
	clock, err := phrase.Clock(clockPhrase, a.now())
	if err != nil {
		clockPhrase, ok = a.ask(ctx, "Please say the time like 7:30 or half past seven in the evening.")
		if !ok {
			return "I couldn't get the time."
		}
		if clock, err = phrase.Clock(clockPhrase, a.now()); err != nil {
			return "I couldn't understand that time."
		}
	}

	daysPhrase, ok := a.ask(ctx, "On which days should it ring?")
	if !ok {
		return "I couldn't get the days."
	}
	days := parseDays(daysPhrase)

	label, _ := a.ask(ctx, "What should I call this alarm?")

	created, err := a.deps.Manager.CreateAlarm(clock, days, label, "")
	if err != nil {
		var verr *alarm.ValidationError
		if errors.As(err, &verr) {
			return "I couldn't set that alarm: " + verr.Reason + "."
		}
		return "Sorry, I couldn't set the alarm."
	}

	reply := fmt.Sprintf("Alarm set for %s on %s.", created.Time, strings.Join(created.Days, ", "))
	if next, err := a.deps.Manager.NextRing(created.ID); err == nil {
		reply += " It will first ring on " + next.Format("Monday at 15:04") + "."
	}
	return reply
}

func (a *Assistant) handleSetReminder(ctx context.Context, request string) string {
	// Inline form: "remind me to <label> in <n> minutes/hours".
	if label, at, ok := a.relativeReminder(request); ok {
		r, err := a.deps.Manager.CreateReminder(at.Format(alarm.TimestampLayout), label, "")
		if err != nil {
			return "Sorry, I couldn't set the reminder."
		}
		return fmt.Sprintf("I'll remind you to %q at %s.", r.Label, at.Format("15:04"))
	}

	datePhrase, ok := a.ask(ctx, "For which day?")
	if !ok {
		return "Tell me like: remind me to call mom in 10 minutes."
	}
	date, err := phrase.Date(datePhrase, a.now())
	if err != nil {
		datePhrase, ok = a.ask(ctx, "Please say the date as year, month and day.")
		if !ok {
			return "I couldn't get the date."
		}
		if date, err = phrase.Date(datePhrase, a.now()); err != nil {
			return "I couldn't understand that date."
		}
	}

	clockPhrase, ok := a.ask(ctx, "At what time?")
	if !ok {
		return "I couldn't get the time."
	}
	clock, err := phrase.Clock(clockPhrase, a.now())
	if err != nil {
		return "I couldn't understand that time."
	}

	label, ok := a.ask(ctx, "What should I remind you about?")
	if !ok {
		return "I couldn't get the reminder text."
	}

	r, err := a.deps.Manager.CreateReminder(date+"T"+clock+":00", label, "")
	if err != nil {
		return "Sorry, I couldn't set the reminder."
	}
	return fmt.Sprintf("Reminder set: %q on %s at %s.", r.Label, date, clock)
}

// relativeReminder parses "remind me to <label> in <n> minutes|hours".
func (a *Assistant) relativeReminder(request string) (string, time.Time, bool) {
	_, rest, ok := strings.Cut(request, "remind me to ")
	if !ok {
		return "", time.Time{}, false
	}
	label, tail, ok := cutLast(rest, " in ")
	if !ok {
		return "", time.Time{}, false
	}
	fields := strings.Fields(tail)
	if len(fields) != 2 {
		return "", time.Time{}, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return "", time.Time{}, false
	}
	var d time.Duration
	switch strings.TrimSuffix(fields[1], "s") {
	case "minute", "min":
		d = time.Duration(n) * time.Minute
	case "hour":
		d = time.Duration(n) * time.Hour
	default:
		return "", time.Time{}, false
	}
	return strings.TrimSpace(label), a.now().Add(d), true
}

func cutLast(s, sep string) (before, after string, found bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

func (a *Assistant) handleListAlarms(context.Context, string) string {
	alarms := a.deps.Manager.Alarms()
	if len(alarms) == 0 {
		return "You have no alarms."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d alarms. ", len(alarms))
	for _, al := range alarms {
		state := "active"
		if !al.IsActive {
			state = "off"
		}
		fmt.Fprintf(&b, "%s at %s on %s, %s. ", labelOr(al.Label, "Alarm"), al.Time, strings.Join(al.Days, ", "), state)
	}
	return strings.TrimSpace(b.String())
}

func (a *Assistant) handleListReminders(context.Context, string) string {
	reminders := a.deps.Manager.Reminders()
	if len(reminders) == 0 {
		return "You have no reminders."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d reminders. ", len(reminders))
	for _, r := range reminders {
		fmt.Fprintf(&b, "%s at %s. ", labelOr(r.Label, "Reminder"), strings.Replace(r.Datetime, "T", " ", 1))
	}
	return strings.TrimSpace(b.String())
}

func (a *Assistant) handleCancelAlarm(ctx context.Context, request string) string {
	target := afterAny(request, "cancel alarm", "delete alarm", "remove alarm")
	if target == "" {
		answer, ok := a.ask(ctx, "Which alarm should I cancel?")
		if !ok {
			return "Tell me the alarm's label, like: cancel alarm standup."
		}
		target = answer
	}
	for _, al := range a.deps.Manager.Alarms() {
		if strings.Contains(strings.ToLower(al.Label), target) {
			a.deps.Manager.DeleteAlarm(al.ID)
			return fmt.Sprintf("Cancelled the %s alarm.", labelOr(al.Label, al.Time))
		}
	}
	return "I couldn't find an alarm with that label."
}

func (a *Assistant) handleCancelReminder(ctx context.Context, request string) string {
	target := afterAny(request, "cancel reminder", "delete reminder", "remove reminder")
	if target == "" {
		answer, ok := a.ask(ctx, "Which reminder should I cancel?")
		if !ok {
			return "Tell me the reminder's label, like: cancel reminder call mom."
		}
		target = answer
	}
	for _, r := range a.deps.Manager.Reminders() {
		if strings.Contains(strings.ToLower(r.Label), target) {
			a.deps.Manager.DeleteReminder(r.ID)
			return fmt.Sprintf("Cancelled the %s reminder.", labelOr(r.Label, r.Datetime))
		}
	}
	return "I couldn't find a reminder with that label."
}

func (a *Assistant) handleVolumeUp(ctx context.Context, _ string) string {
	if err := a.deps.Mixer.Increase(ctx); err != nil {
		slog.Warn("volume increase failed", "err", err)
		return "Sorry, I couldn't change the volume."
	}
	return "Volume increased"
}

func (a *Assistant) handleVolumeDown(ctx context.Context, _ string) string {
	if err := a.deps.Mixer.Decrease(ctx); err != nil {
		slog.Warn("volume decrease failed", "err", err)
		return "Sorry, I couldn't change the volume."
	}
	return "Volume decreased"
}

func (a *Assistant) handleMute(ctx context.Context, _ string) string {
	if err := a.deps.Mixer.Mute(ctx); err != nil {
		slog.Warn("mute failed", "err", err)
		return "Sorry, I couldn't change the volume."
	}
	return "Volume muted"
}

func (a *Assistant) handleUnmute(ctx context.Context, _ string) string {
	if err := a.deps.Mixer.Unmute(ctx); err != nil {
		slog.Warn("unmute failed", "err", err)
		return "Sorry, I couldn't change the volume."
	}
	return "Volume unmuted"
}

// handleDictation appends everything the user says to the dictation file
// until they say "stop dictation".
func (a *Assistant) handleDictation(ctx context.Context, _ string) string {
	if a.deps.Listener == nil {
		return "Dictation needs voice input, which is not available."
	}
	path := a.deps.DictationFile
	if path == "" {
		path = "dictation.txt"
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("cannot open dictation file", "path", path, "err", err)
		return "Sorry, I couldn't open the dictation file."
	}
	defer f.Close()

	a.say("Start speaking. I will write everything you say into a file. Say stop dictation to finish.")
	for {
		text, err := a.deps.Listener.Listen(ctx)
		if err != nil {
			slog.Error("dictation listen failed", "err", err)
			return "Dictation stopped. Your words have been saved."
		}
		text = strings.TrimSpace(text)
		if strings.Contains(strings.ToLower(text), "stop dictation") {
			return "Dictation stopped. Your words have been saved."
		}
		if text == "" {
			continue
		}
		if _, err := f.WriteString(text + "\n"); err != nil {
			slog.Error("dictation write failed", "path", path, "err", err)
			return "Sorry, I couldn't write to the dictation file."
		}
	}
}

var languageCodes = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "russian": "ru", "japanese": "ja",
}

func (a *Assistant) handleTranslate(ctx context.Context, request string) string {
	_, rest, _ := strings.Cut(request, "translate ")
	text, langName, ok := cutLast(rest, " to ")
	if !ok {
		return "Tell me like: translate good morning to spanish."
	}
	code, known := languageCodes[strings.TrimSpace(langName)]
	if !known {
		return "Sorry, I don't know that language yet."
	}
	out, err := a.deps.Translator.Translate(ctx, strings.TrimSpace(text), "en", code)
	if err != nil {
		slog.Warn("translation failed", "target", code, "err", err)
		return "Sorry, I couldn't translate that right now."
	}
	return out
}

func (a *Assistant) handleCheckerStop(context.Context, string) string {
	a.deps.Manager.StopChecker()
	return "Alarm checking stopped."
}

func (a *Assistant) handleCheckerStart(context.Context, string) string {
	a.deps.Manager.StartChecker()
	return "Alarm checking started."
}

func afterAny(s string, prefixes ...string) string {
	for _, p := range prefixes {
		if _, after, ok := strings.Cut(s, p); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}

func labelOr(label, alt string) string {
	if strings.TrimSpace(label) == "" {
		return alt
	}
	return label
}

var allWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// parseDays extracts weekday names from a spoken phrase; "every day" and
// "daily" mean all seven, "weekdays" Monday through Friday.
func parseDays(s string) []string {
	s = strings.ToLower(s)
	if strings.Contains(s, "every day") || strings.Contains(s, "everyday") || strings.Contains(s, "daily") {
		return allWeekdays
	}
	if strings.Contains(s, "weekend") {
		return []string{"Saturday", "Sunday"}
	}
	if strings.Contains(s, "weekday") || strings.Contains(s, "work day") {
		return allWeekdays[:5]
	}
	var days []string
	for _, d := range allWeekdays {
		if strings.Contains(s, strings.ToLower(d)) {
			days = append(days, d)
		}
	}
	return days
}
