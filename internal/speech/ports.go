package speech

import (
	"errors"
	"fmt"
)

// ErrCapabilityUnavailable means the runtime has no speech engine; callers
// degrade to text-only.
var ErrCapabilityUnavailable = errors.New("speech capability unavailable")

type EventKind string

const (
	EventInterim EventKind = "interim"
	EventFinal   EventKind = "final"
	EventEnd     EventKind = "end"
	EventError   EventKind = "error"
)

// ErrorNoSpeech is the recognizer error kind for silence.
const ErrorNoSpeech = "no-speech"

// RecognitionEvent is one event from a recognition session.
type RecognitionEvent struct {
	Kind       EventKind `json:"kind"`
	Transcript string    `json:"transcript,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type RecognitionError struct {
	Kind string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("speech recognition error: %s", e.Kind)
}

// Recognizer is the speech-recognition port. Start begins a session that
// delivers events to sink until Stop or an end event.
type Recognizer interface {
	Start(locale string, sink func(RecognitionEvent)) error
	Stop()
}

type Voice struct {
	Name    string `json:"name"`
	Lang    string `json:"lang"`
	Default bool   `json:"default,omitempty"`
}

type Utterance struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
	Voice  Voice  `json:"voice"`
}

// Synthesizer is the speech-output port. done is called once playback ends
// on its own; it is not required after Cancel.
type Synthesizer interface {
	Voices() []Voice
	Speak(u Utterance, done func()) error
	Cancel()
}

// UnavailableRecognizer is used where no recognition engine exists.
type UnavailableRecognizer struct{}

func (UnavailableRecognizer) Start(string, func(RecognitionEvent)) error {
	return ErrCapabilityUnavailable
}

func (UnavailableRecognizer) Stop() {}

// UnavailableSynthesizer is used where no synthesis engine exists.
type UnavailableSynthesizer struct{}

func (UnavailableSynthesizer) Voices() []Voice { return nil }

func (UnavailableSynthesizer) Speak(Utterance, func()) error { return ErrCapabilityUnavailable }

func (UnavailableSynthesizer) Cancel() {}
