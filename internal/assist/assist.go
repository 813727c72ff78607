// Package assist is the conversation loop: it routes recognized or typed
// phrases to handlers that answer with speech and act through the alarm
// manager, the web APIs, the mailer and the launcher.
package assist

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"nova/internal/alarm"
	"nova/internal/launcher"
	"nova/internal/mail"
	"nova/internal/webapi"
)

// Speaker voices a response. Best-effort: a broken voice never fails a
// command, the text reply still reaches the shell.
type Speaker interface {
	Speak(text string) error
}

// Listener captures one utterance. An empty transcript means nothing was
// understood, which is a prompt to repeat, not an error.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Fallback answers utterances no rule matched.
type Fallback interface {
	Answer(ctx context.Context, text string) (string, error)
}

// Mixer controls system playback volume.
type Mixer interface {
	Increase(ctx context.Context) error
	Decrease(ctx context.Context) error
	Mute(ctx context.Context) error
	Unmute(ctx context.Context) error
}

// Deps carries everything the assistant talks to. Speaker, Listener and
// Fallback may be nil; the matching features degrade gracefully.
type Deps struct {
	Speaker    Speaker
	Listener   Listener
	Fallback   Fallback
	Manager    *alarm.Manager
	Weather    *webapi.Weather
	News       *webapi.News
	Jokes      *webapi.Jokes
	Translator *webapi.Translator
	Mailer     *mail.Sender
	Launcher   *launcher.Launcher
	Mixer      Mixer

	// Contacts maps spoken names to email addresses.
	Contacts map[string]string
	// Language is the base language code for jokes.
	Language string
	// DictationFile is where dictated speech is appended.
	DictationFile string
	// OnExit runs when the user says goodbye; the daemon hooks shutdown here.
	OnExit func()
}

type Assistant struct {
	deps  Deps
	rules []rule
	now   func() time.Time
}

func New(deps Deps) *Assistant {
	if deps.Language == "" {
		deps.Language = "en"
	}
	a := &Assistant{deps: deps, now: time.Now}
	a.rules = a.buildRules()
	return a
}

// Respond processes one command and speaks the reply. The returned text goes
// back to whichever surface delivered the command (bus, ipc, voice loop).
func (a *Assistant) Respond(ctx context.Context, request string) string {
	reply := a.process(ctx, request)
	a.say(reply)
	return reply
}

// ListenOnce runs one voice round: capture, transcribe, respond.
func (a *Assistant) ListenOnce(ctx context.Context) string {
	if a.deps.Listener == nil {
		return "Voice input is not available."
	}
	text, err := a.deps.Listener.Listen(ctx)
	if err != nil {
		slog.Error("listen failed", "err", err)
		return "There was an error processing your voice command."
	}
	if strings.TrimSpace(text) == "" {
		reply := "Sorry, I couldn't understand that."
		a.say(reply)
		return reply
	}
	slog.Info("recognized", "text", text)
	return a.Respond(ctx, text)
}

func (a *Assistant) process(ctx context.Context, request string) (reply string) {
	request = strings.ToLower(strings.TrimSpace(request))
	if request == "" {
		return "Sorry, I didn't catch that. Could you please repeat?"
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panicked", "request", request, "panic", r)
			reply = "Sorry, I encountered an error processing your request."
		}
	}()

	for _, rule := range a.rules {
		if rule.matches(request) {
			return rule.handler(ctx, request)
		}
	}

	if a.deps.Fallback != nil {
		answer, err := a.deps.Fallback.Answer(ctx, request)
		if err == nil {
			return answer
		}
		slog.Warn("fallback answer failed", "err", err)
	}
	return "I'm not sure how to help with that yet. You can try asking me about the weather, setting a reminder, or searching for something."
}

func (a *Assistant) say(text string) {
	if a.deps.Speaker == nil || text == "" {
		return
	}
	if err := a.deps.Speaker.Speak(text); err != nil {
		slog.Warn("speech synthesis failed", "err", err)
	}
}

// ask speaks a prompt and captures the answer. ok is false when no listener
// is attached or nothing was understood.
func (a *Assistant) ask(ctx context.Context, prompt string) (string, bool) {
	if a.deps.Listener == nil {
		return "", false
	}
	a.say(prompt)
	text, err := a.deps.Listener.Listen(ctx)
	if err != nil || strings.TrimSpace(text) == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(text)), true
}
