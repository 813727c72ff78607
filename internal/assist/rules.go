package assist

import (
	"context"
	"strings"
)

// rule maps trigger phrases to a handler. Matching is plain substring
// containment over the lowercased request, same as every shell variant of the
// original assistant; word rules additionally require a word boundary so that
// "hi" does not fire inside "this".
type rule struct {
	phrases []string
	words   []string
	handler func(ctx context.Context, request string) string
}

func (r rule) matches(request string) bool {
	for _, p := range r.phrases {
		if strings.Contains(request, p) {
			return true
		}
	}
	if len(r.words) > 0 {
		for _, w := range strings.Fields(strings.Map(stripPunct, request)) {
			for _, want := range r.words {
				if w == want {
					return true
				}
			}
		}
	}
	return false
}

func stripPunct(r rune) rune {
	switch r {
	case ',', '.', '?', '!':
		return ' '
	}
	return r
}

// buildRules wires the routing table. Order matters: specific phrases come
// before broad ones ("set alarm" before bare "time").
func (a *Assistant) buildRules() []rule {
	return []rule{
		{words: []string{"hello", "hi", "hey", "greetings"}, handler: a.handleGreeting},
		{phrases: []string{"goodbye", "see you"}, words: []string{"exit", "bye"}, handler: a.handleExit},

		{phrases: []string{"set alarm", "create alarm", "new alarm"}, handler: a.handleSetAlarm},
		{phrases: []string{"cancel alarm", "delete alarm", "remove alarm"}, handler: a.handleCancelAlarm},
		{phrases: []string{"list alarms", "my alarms", "what alarms"}, handler: a.handleListAlarms},
		{phrases: []string{"set reminder", "create reminder", "remind me"}, handler: a.handleSetReminder},
		{phrases: []string{"cancel reminder", "delete reminder", "remove reminder"}, handler: a.handleCancelReminder},
		{phrases: []string{"list reminders", "my reminders", "what reminders"}, handler: a.handleListReminders},

		{phrases: []string{"search google for"}, handler: a.searchHandler("google", "search google for")},
		{phrases: []string{"search youtube for"}, handler: a.searchHandler("youtube", "search youtube for")},
		{phrases: []string{"search google maps for", "search maps for"}, handler: a.searchHandler("maps", "search google maps for", "search maps for")},

		{phrases: []string{"play music", "play song", "play a song"}, handler: a.handlePlayMusic},
		{phrases: []string{"increase volume", "volume up", "turn it up"}, handler: a.handleVolumeUp},
		{phrases: []string{"decrease volume", "volume down", "turn it down"}, handler: a.handleVolumeDown},
		// "unmute volume" contains "mute volume"; this order keeps them apart.
		{phrases: []string{"unmute"}, handler: a.handleUnmute},
		{phrases: []string{"mute"}, handler: a.handleMute},
		{phrases: []string{"start dictation", "dictate"}, handler: a.handleDictation},
		{phrases: []string{"open "}, handler: a.handleOpenApp},
		{phrases: []string{"send email", "send an email", "write an email"}, handler: a.handleEmail},
		{phrases: []string{"whatsapp"}, handler: a.handleWhatsApp},
		{phrases: []string{"translate "}, handler: a.handleTranslate},
		{phrases: []string{"stop checker", "stop the checker"}, handler: a.handleCheckerStop},
		{phrases: []string{"start checker", "start the checker"}, handler: a.handleCheckerStart},
		{phrases: []string{"weather"}, handler: a.handleWeather},
		{phrases: []string{"headlines", "news"}, handler: a.handleNews},
		{phrases: []string{"joke"}, handler: a.handleJoke},

		{words: []string{"time"}, handler: a.handleTime},
		{words: []string{"date", "today"}, handler: a.handleDate},
	}
}
