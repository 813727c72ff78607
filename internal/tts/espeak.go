// Package tts voices responses through espeak-ng.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *lang, int rate)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs = { .languages = lang };
	espeak_SetVoiceByProperties(&specs);
	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_Synth(text, strlen(text) + 1, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// Engine speaks text aloud. One utterance plays at a time; callers treat
// failures as non-fatal (a response the user can still read on the shell).
type Engine struct {
	mu   sync.Mutex
	lang string
	rate int
}

// NewEngine configures the voice. lang is an espeak language code ("en",
// "ru"); rate is words per minute, 0 for the engine default.
func NewEngine(lang string, rate int) *Engine {
	if lang == "" {
		lang = "en"
	}
	return &Engine{lang: lang, rate: rate}
}

func (e *Engine) Speak(text string) error {
	if text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(e.lang)
	defer C.free(unsafe.Pointer(clang))

	rc := C.espeak_say(ctext, clang, C.int(e.rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}
