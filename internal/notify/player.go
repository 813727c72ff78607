package notify

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

const (
	fallbackRate = beep.SampleRate(44100)
	fallbackHz   = 1000
	fallbackDur  = time.Second
)

// Player renders notification sounds through the system speaker. A missing or
// undecodable file degrades to a generated beep tone, never to silence.
type Player struct {
	mu sync.Mutex // the speaker is process-global; one playback at a time
}

func NewPlayer() *Player { return &Player{} }

// PlaySound plays the audio file at path, blocking until playback finishes.
// Any problem with the file falls back to the beep tone; the returned error is
// non-nil only when even the fallback cannot reach the speaker.
func (p *Player) PlaySound(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	streamer, format, err := decode(path)
	if err != nil {
		slog.Warn("cannot play notification sound, falling back to beep", "path", path, "err", err)
		return p.beepLocked()
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// Beep plays the fallback tone directly.
func (p *Player) Beep() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beepLocked()
}

func (p *Player) beepLocked() error {
	if err := speaker.Init(fallbackRate, fallbackRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	samples := fallbackRate.N(fallbackDur)
	speaker.Play(beep.Seq(beep.Take(samples, tone(fallbackRate, fallbackHz)), beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

// tone generates a plain sine wave, the audible stand-in for a broken sound
// file.
func tone(sr beep.SampleRate, hz float64) beep.Streamer {
	var phase float64
	step := hz / float64(sr)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.4 * math.Sin(2*math.Pi*phase)
			samples[i][0] = v
			samples[i][1] = v
			phase += step
			if phase >= 1 {
				phase -= 1
			}
		}
		return len(samples), true
	})
}
