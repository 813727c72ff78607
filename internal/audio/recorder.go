// Package audio captures microphone input for the speech pipeline.
package audio

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate matches what whisper.cpp expects.
	SampleRate = 16000

	frameSize        = 320 // 20ms at 16 kHz
	silenceThreshRMS = 0.015
	silenceAfter     = 600 * time.Millisecond
	maxUtterance     = 10 * time.Second
)

// Recorder owns the portaudio session. Init once at boot, Close on shutdown.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordPhrase captures one utterance: it waits for speech, then stops after
// a sustained pause or the utterance cap, whichever first. Returns mono
// 16 kHz float32 PCM; empty output means silence.
func (r *Recorder) RecordPhrase(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)
	frameDur := 20 * time.Millisecond
	maxFrames := int(maxUtterance / frameDur)
	silenceLimit := int(silenceAfter / frameDur)

	for i := 0; i < maxFrames; i++ {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}
		if speaking {
			silenceFrames++
			if silenceFrames >= silenceLimit {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
