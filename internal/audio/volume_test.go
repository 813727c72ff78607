package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pactlListing = `Sink Input #42
	Driver: protocol-native.c
	Volume: front-left: 39322 /  60% / -13.31 dB,   front-right: 39322 /  60% / -13.31 dB
	Properties:
		application.name = "Firefox"
Sink Input #57
	Driver: protocol-native.c
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "mpv"
Sink Input #bogus
	Volume: front-left: 65536 / 100% / 0.00 dB
`

func TestParseSinkInputs(t *testing.T) {
	streams := parseSinkInputs(pactlListing)
	require.Len(t, streams, 2)
	assert.Equal(t, streamInfo{ID: 42, Volume: 60, AppName: "Firefox"}, streams[0])
	assert.Equal(t, streamInfo{ID: 57, Volume: 100, AppName: "mpv"}, streams[1])

	assert.Empty(t, parseSinkInputs("no streams here"))
}

func newTestMixer(streams []streamInfo) (*Mixer, map[int]int) {
	m := NewMixer(10)
	volumes := make(map[int]int)
	for _, s := range streams {
		volumes[s.ID] = s.Volume
	}
	m.list = func(context.Context) ([]streamInfo, error) {
		out := make([]streamInfo, 0, len(volumes))
		for _, s := range streams {
			out = append(out, streamInfo{ID: s.ID, Volume: volumes[s.ID], AppName: s.AppName})
		}
		return out, nil
	}
	m.set = func(_ context.Context, id, percent int) error {
		volumes[id] = percent
		return nil
	}
	return m, volumes
}

func TestMixerShift(t *testing.T) {
	m, volumes := newTestMixer([]streamInfo{
		{ID: 1, Volume: 60},
		{ID: 2, Volume: 145},
	})
	ctx := context.Background()

	require.NoError(t, m.Increase(ctx))
	assert.Equal(t, 70, volumes[1])
	assert.Equal(t, 150, volumes[2], "capped at 150")

	require.NoError(t, m.Decrease(ctx))
	require.NoError(t, m.Decrease(ctx))
	assert.Equal(t, 50, volumes[1])

	volumes[1] = 5
	require.NoError(t, m.Decrease(ctx))
	assert.Equal(t, 0, volumes[1], "floored at 0")
}

func TestMixerMuteUnmute(t *testing.T) {
	m, volumes := newTestMixer([]streamInfo{
		{ID: 1, Volume: 60},
		{ID: 2, Volume: 100},
	})
	ctx := context.Background()

	require.NoError(t, m.Mute(ctx))
	assert.Equal(t, 0, volumes[1])
	assert.Equal(t, 0, volumes[2])

	// A second mute must not overwrite the remembered volumes with zero.
	require.NoError(t, m.Mute(ctx))

	require.NoError(t, m.Unmute(ctx))
	assert.Equal(t, 60, volumes[1])
	assert.Equal(t, 100, volumes[2])
}
