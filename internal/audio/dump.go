package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DumpWAV writes captured PCM to a timestamped wav file under dir, for
// debugging what the recognizer actually heard. Best-effort; callers log the
// error and move on.
func DumpWAV(dir string, pcm []float32) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("utterance-%s.wav", time.Now().Format("20060102-150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(pcm)),
	}
	for i, s := range pcm {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return path, nil
}
