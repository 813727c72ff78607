package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedNotice struct {
	title, message string
}

type fakeSink struct {
	seen []recordedNotice
	err  error
}

func (f *fakeSink) ShowNotice(title, message string) error {
	f.seen = append(f.seen, recordedNotice{title, message})
	return f.err
}

func TestShowNoticeFansOut(t *testing.T) {
	a, b := &fakeSink{}, &fakeSink{}
	n := NewNotifier(NewPlayer(), a, b)

	assert.NoError(t, n.ShowNotice("Alarm", "Alarm: standup"))
	assert.Equal(t, []recordedNotice{{"Alarm", "Alarm: standup"}}, a.seen)
	assert.Equal(t, []recordedNotice{{"Alarm", "Alarm: standup"}}, b.seen)
}

func TestDecodeClosesFileOnBadData(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"junk.mp3", "junk.ogg", "junk.flac", "junk.wav"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o644))

		_, _, err := decode(path)
		assert.Error(t, err, name)
	}

	// Repeated failures must not accumulate open file handles.
	if before, ok := countOpenFDs(); ok {
		for i := 0; i < 32; i++ {
			path := filepath.Join(dir, "junk.mp3")
			_, _, err := decode(path)
			require.Error(t, err)
		}
		after, _ := countOpenFDs()
		assert.LessOrEqual(t, after, before, "decode leaked file descriptors")
	}
}

func countOpenFDs() (int, bool) {
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		return 0, false
	}
	return len(entries), true
}

func TestShowNoticeContinuesPastFailure(t *testing.T) {
	bad := &fakeSink{err: errors.New("no display")}
	good := &fakeSink{}
	n := NewNotifier(NewPlayer(), bad, good)

	err := n.ShowNotice("Reminder", "Reminder: Call mom")
	assert.Error(t, err)
	assert.Len(t, good.seen, 1, "later sinks still receive the notice")
}
