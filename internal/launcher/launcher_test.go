package launcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLauncher(apps map[string]string) (*Launcher, *[]string) {
	l := New(apps)
	var calls []string
	l.run = func(name string, arg ...string) error {
		calls = append(calls, strings.Join(append([]string{name}, arg...), " "))
		return nil
	}
	return l, &calls
}

func TestOpenApp(t *testing.T) {
	l, calls := newTestLauncher(map[string]string{
		"Calculator": "gnome-calculator",
		"editor":     "code --new-window",
	})

	require.NoError(t, l.OpenApp("calculator"))
	require.NoError(t, l.OpenApp(" Editor "))
	assert.Equal(t, []string{"gnome-calculator", "code --new-window"}, *calls)

	assert.Error(t, l.OpenApp("spreadsheet"))
}

func TestSearch(t *testing.T) {
	l, calls := newTestLauncher(nil)

	require.NoError(t, l.Search("go concurrency patterns", "youtube"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "xdg-open https://www.youtube.com/results?search_query=go+concurrency+patterns", (*calls)[0])

	assert.Error(t, l.Search("anything", "altavista"))
}

func TestWhatsApp(t *testing.T) {
	l, calls := newTestLauncher(nil)

	require.NoError(t, l.WhatsApp("+1 (555) 010-9999", "running late"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "xdg-open https://wa.me/15550109999?text=running+late", (*calls)[0])

	assert.Error(t, l.WhatsApp("no digits here", "x"))
}
