// Package stt transcribes captured speech locally with whisper.cpp.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Transcriber wraps one loaded whisper model. Safe for sequential use; the
// assistant runs one utterance at a time.
type Transcriber struct {
	model whisper.Model
}

func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe turns mono 16 kHz float32 PCM into text. language is a whisper
// language code or "auto". An empty result means nothing was understood; the
// caller treats that as a recoverable non-answer.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if t.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm) == 0 {
		return "", errors.New("no audio samples provided")
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}
	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
