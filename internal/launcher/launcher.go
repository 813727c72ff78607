// Package launcher opens local applications and browser URLs on behalf of
// voice commands.
package launcher

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

var searchEngines = map[string]string{
	"google":  "https://www.google.com/search?q=%s",
	"youtube": "https://www.youtube.com/results?search_query=%s",
	"maps":    "https://www.google.com/maps/search/%s",
}

// Launcher resolves app names to commands from config and opens URLs through
// the desktop's default handler.
type Launcher struct {
	apps map[string]string

	// run is swapped in tests.
	run func(name string, arg ...string) error
}

func New(apps map[string]string) *Launcher {
	lowered := make(map[string]string, len(apps))
	for name, cmd := range apps {
		lowered[strings.ToLower(name)] = cmd
	}
	return &Launcher{
		apps: lowered,
		run: func(name string, arg ...string) error {
			return exec.Command(name, arg...).Start()
		},
	}
}

// OpenApp starts the application configured under name.
func (l *Launcher) OpenApp(name string) error {
	cmd, ok := l.apps[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown application %q", name)
	}
	fields := strings.Fields(cmd)
	return l.run(fields[0], fields[1:]...)
}

// OpenURL hands the URL to the desktop's opener.
func (l *Launcher) OpenURL(u string) error {
	return l.run("xdg-open", u)
}

// Search opens a web search on the given platform: google, youtube or maps.
func (l *Launcher) Search(query, platform string) error {
	tmpl, ok := searchEngines[platform]
	if !ok {
		return fmt.Errorf("unknown search platform %q", platform)
	}
	return l.OpenURL(fmt.Sprintf(tmpl, url.QueryEscape(query)))
}

// WhatsApp opens a prefilled WhatsApp Web conversation. phone is in
// international digits-only form.
func (l *Launcher) WhatsApp(phone, text string) error {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if phone == "" {
		return fmt.Errorf("empty phone number")
	}
	return l.OpenURL(fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text)))
}
