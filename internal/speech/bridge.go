package speech

import (
	"errors"
	"strconv"
	"sync"
)

// Command is an instruction for the browser-side speech engines.
type Command struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Locale string `json:"locale,omitempty"`
	Text   string `json:"text,omitempty"`
	Voice  *Voice `json:"voice,omitempty"`
}

const (
	ActionListen        = "listen"
	ActionStopListening = "stop_listening"
	ActionSpeak         = "speak"
	ActionCancelSpeech  = "cancel_speech"
)

var ErrNotListening = errors.New("speech: no recognition session")

// BridgeRecognizer relays recognition to the UI: Start/Stop become commands
// and the UI posts events back through Push.
type BridgeRecognizer struct {
	send func(Command)

	mu        sync.Mutex
	available bool
	sink      func(RecognitionEvent)
}

func NewBridgeRecognizer(send func(Command)) *BridgeRecognizer {
	return &BridgeRecognizer{send: send, available: true}
}

// SetAvailable records whether the UI runtime supports recognition.
func (b *BridgeRecognizer) SetAvailable(ok bool) {
	b.mu.Lock()
	b.available = ok
	b.mu.Unlock()
}

func (b *BridgeRecognizer) Start(locale string, sink func(RecognitionEvent)) error {
	b.mu.Lock()
	if !b.available {
		b.mu.Unlock()
		return ErrCapabilityUnavailable
	}
	b.sink = sink
	b.mu.Unlock()
	b.send(Command{Action: ActionListen, Locale: locale})
	return nil
}

func (b *BridgeRecognizer) Stop() {
	b.mu.Lock()
	active := b.sink != nil
	b.sink = nil
	b.mu.Unlock()
	if active {
		b.send(Command{Action: ActionStopListening})
	}
}

// Push delivers a UI event to the active session.
func (b *BridgeRecognizer) Push(ev RecognitionEvent) error {
	b.mu.Lock()
	sink := b.sink
	if ev.Kind == EventEnd || ev.Kind == EventError {
		b.sink = nil
	}
	b.mu.Unlock()
	if sink == nil {
		return ErrNotListening
	}
	sink(ev)
	return nil
}

// BroadcastSynthesizer relays playback to the UI. The UI reports natural
// completion through Finished.
type BroadcastSynthesizer struct {
	send func(Command)

	mu      sync.Mutex
	voices  []Voice
	seq     uint64
	pending map[string]func()
}

func NewBroadcastSynthesizer(send func(Command)) *BroadcastSynthesizer {
	return &BroadcastSynthesizer{send: send, pending: make(map[string]func())}
}

// SetVoices stores the voice list reported by the UI.
func (b *BroadcastSynthesizer) SetVoices(v []Voice) {
	b.mu.Lock()
	b.voices = append([]Voice(nil), v...)
	b.mu.Unlock()
}

func (b *BroadcastSynthesizer) Voices() []Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Voice(nil), b.voices...)
}

func (b *BroadcastSynthesizer) Speak(u Utterance, done func()) error {
	b.mu.Lock()
	b.seq++
	id := strconv.FormatUint(b.seq, 10)
	b.pending[id] = done
	b.mu.Unlock()

	cmd := Command{Action: ActionSpeak, ID: id, Locale: u.Locale, Text: u.Text}
	if u.Voice.Name != "" {
		v := u.Voice
		cmd.Voice = &v
	}
	b.send(cmd)
	return nil
}

func (b *BroadcastSynthesizer) Cancel() {
	b.mu.Lock()
	b.pending = make(map[string]func())
	b.mu.Unlock()
	b.send(Command{Action: ActionCancelSpeech})
}

// Finished marks utterance id as played to completion.
func (b *BroadcastSynthesizer) Finished(id string) bool {
	b.mu.Lock()
	done, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()
	if ok && done != nil {
		done()
	}
	return ok
}
