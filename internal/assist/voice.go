package assist

import (
	"context"
	"log/slog"

	"nova/internal/audio"
	"nova/internal/stt"
)

// VoiceListener captures a phrase from the microphone and transcribes it.
// Implements Listener.
type VoiceListener struct {
	rec     *audio.Recorder
	tr      *stt.Transcriber
	lang    string
	dumpDir string
}

// NewVoiceListener wires recorder and transcriber. dumpDir, when non-empty,
// keeps a WAV of every utterance for debugging recognition issues.
func NewVoiceListener(rec *audio.Recorder, tr *stt.Transcriber, lang, dumpDir string) *VoiceListener {
	return &VoiceListener{rec: rec, tr: tr, lang: lang, dumpDir: dumpDir}
}

func (v *VoiceListener) Listen(ctx context.Context) (string, error) {
	pcm, err := v.rec.RecordPhrase(ctx)
	if err != nil {
		return "", err
	}
	if v.dumpDir != "" {
		if path, err := audio.DumpWAV(v.dumpDir, pcm); err != nil {
			slog.Warn("failed to dump utterance", "err", err)
		} else {
			slog.Debug("utterance dumped", "path", path)
		}
	}
	return v.tr.Transcribe(ctx, pcm, v.lang)
}
