package speech

import (
	"strings"
	"sync"
	"time"

	"github.com/suPer8Hu/health-triage/internal/locale"
)

type State string

const (
	Idle      State = "idle"
	Listening State = "listening"
)

const DefaultSettleDelay = 400 * time.Millisecond

// UtteranceCompleted is emitted once per finished utterance with a
// non-empty transcript.
type UtteranceCompleted struct {
	Transcript string
	Language   locale.Language
}

type InputOption func(*InputController)

func WithSettleDelay(d time.Duration) InputOption {
	return func(c *InputController) { c.settle = d }
}

// OnTranscript receives the live transcript after every interim/final event.
func OnTranscript(f func(string)) InputOption {
	return func(c *InputController) { c.onTranscript = f }
}

// OnError receives recognition errors other than no-speech.
func OnError(f func(error)) InputOption {
	return func(c *InputController) { c.onError = f }
}

// InputController owns the single recognition session.
type InputController struct {
	rec Recognizer

	settle       time.Duration
	afterFunc    func(time.Duration, func())
	onAutoSend   func(UtteranceCompleted)
	onTranscript func(string)
	onError      func(error)

	mu      sync.Mutex
	state   State
	gen     uint64
	lang    locale.Language
	finals  []string
	interim string
}

func NewInputController(rec Recognizer, onAutoSend func(UtteranceCompleted), opts ...InputOption) *InputController {
	if rec == nil {
		rec = UnavailableRecognizer{}
	}
	c := &InputController{
		rec:        rec,
		settle:     DefaultSettleDelay,
		afterFunc:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		onAutoSend: onAutoSend,
		state:      Idle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *InputController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript is the current value: accumulated finals, else the latest interim.
func (c *InputController) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcriptLocked()
}

func (c *InputController) transcriptLocked() string {
	if len(c.finals) > 0 {
		return strings.TrimSpace(strings.Join(c.finals, " "))
	}
	return strings.TrimSpace(c.interim)
}

// Start begins listening in lang. A session already in progress is
// displaced without auto-send.
func (c *InputController) Start(lang locale.Language) error {
	c.mu.Lock()
	displaced := c.state == Listening
	c.gen++
	gen := c.gen
	c.state = Listening
	c.lang = lang
	c.finals = nil
	c.interim = ""
	c.mu.Unlock()

	if displaced {
		c.rec.Stop()
	}

	err := c.rec.Start(lang.Code(), func(ev RecognitionEvent) { c.handle(gen, ev) })
	if err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.state = Idle
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// Stop ends listening early. A transcript already captured is auto-sent
// exactly as on a natural end; the recognizer's own end event is ignored.
func (c *InputController) Stop() {
	c.mu.Lock()
	if c.state != Listening {
		c.mu.Unlock()
		return
	}
	done := c.finishLocked()
	c.mu.Unlock()

	c.rec.Stop()
	done()
}

func (c *InputController) handle(gen uint64, ev RecognitionEvent) {
	c.mu.Lock()
	if gen != c.gen || c.state != Listening {
		c.mu.Unlock()
		return
	}

	switch ev.Kind {
	case EventInterim:
		c.interim = ev.Transcript
		cur := c.transcriptLocked()
		c.mu.Unlock()
		c.notifyTranscript(cur)

	case EventFinal:
		if t := strings.TrimSpace(ev.Transcript); t != "" {
			c.finals = append(c.finals, t)
		}
		c.interim = ""
		cur := c.transcriptLocked()
		c.mu.Unlock()
		c.notifyTranscript(cur)

	case EventEnd:
		done := c.finishLocked()
		c.mu.Unlock()
		done()

	case EventError:
		c.gen++
		c.state = Idle
		c.mu.Unlock()
		if ev.Error == ErrorNoSpeech {
			return
		}
		if c.onError != nil {
			c.onError(&RecognitionError{Kind: ev.Error})
		}

	default:
		c.mu.Unlock()
	}
}

// finishLocked moves to Idle, invalidates the session and returns the
// auto-send action to run after unlocking.
func (c *InputController) finishLocked() func() {
	c.gen++
	c.state = Idle
	text := c.transcriptLocked()
	lang := c.lang
	if text == "" || c.onAutoSend == nil {
		return func() {}
	}
	send := c.onAutoSend
	return func() {
		c.afterFunc(c.settle, func() {
			send(UtteranceCompleted{Transcript: text, Language: lang})
		})
	}
}

func (c *InputController) notifyTranscript(s string) {
	if c.onTranscript != nil {
		c.onTranscript(s)
	}
}
