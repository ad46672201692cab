package speech

import (
	"strings"
	"sync"

	"github.com/suPer8Hu/health-triage/internal/locale"
)

const DefaultMaxChars = 500

type OutputOption func(*OutputController)

func WithMaxChars(n int) OutputOption {
	return func(c *OutputController) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// OnWarning receives the first capability failure only.
func OnWarning(f func(error)) OutputOption {
	return func(c *OutputController) { c.onWarning = f }
}

// OnSpeakingChange is called whenever the speaking flag flips.
func OnSpeakingChange(f func(bool)) OutputOption {
	return func(c *OutputController) { c.onChange = f }
}

// OutputController plays at most one utterance at a time.
type OutputController struct {
	synth     Synthesizer
	maxChars  int
	onWarning func(error)
	onChange  func(bool)

	mu       sync.Mutex
	speaking bool
	gen      uint64
	warned   bool
}

func NewOutputController(s Synthesizer, opts ...OutputOption) *OutputController {
	if s == nil {
		s = UnavailableSynthesizer{}
	}
	c := &OutputController{synth: s, maxChars: DefaultMaxChars}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *OutputController) Speaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speaking
}

// Speak replaces whatever is playing with text in lang. It never blocks on
// playback and reports failures only through OnWarning.
func (c *OutputController) Speak(text string, lang locale.Language) {
	text = Truncate(Sanitize(text), c.maxChars)

	c.mu.Lock()
	wasSpeaking := c.speaking
	c.gen++
	gen := c.gen
	c.speaking = false
	c.mu.Unlock()

	if wasSpeaking {
		c.synth.Cancel()
		c.notify(false)
	}
	if text == "" {
		return
	}

	u := Utterance{Text: text, Locale: lang.Code(), Voice: pickVoice(c.synth.Voices(), lang.Code())}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.speaking = true
	c.mu.Unlock()
	c.notify(true)

	err := c.synth.Speak(u, func() { c.finished(gen) })
	if err != nil {
		c.finished(gen)
		c.warn(err)
	}
}

// Cancel stops playback; it is a no-op when nothing is playing.
func (c *OutputController) Cancel() {
	c.mu.Lock()
	if !c.speaking {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.speaking = false
	c.mu.Unlock()

	c.synth.Cancel()
	c.notify(false)
}

func (c *OutputController) finished(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || !c.speaking {
		c.mu.Unlock()
		return
	}
	c.speaking = false
	c.mu.Unlock()
	c.notify(false)
}

func (c *OutputController) warn(err error) {
	c.mu.Lock()
	first := !c.warned
	c.warned = true
	c.mu.Unlock()
	if first && c.onWarning != nil {
		c.onWarning(err)
	}
}

func (c *OutputController) notify(speaking bool) {
	if c.onChange != nil {
		c.onChange(speaking)
	}
}

// pickVoice prefers an exact locale match, then the same base language,
// then the engine's default voice.
func pickVoice(voices []Voice, code string) Voice {
	norm := func(s string) string { return strings.ToLower(strings.ReplaceAll(s, "_", "-")) }
	want := norm(code)
	base, _, _ := strings.Cut(want, "-")

	for _, v := range voices {
		if norm(v.Lang) == want {
			return v
		}
	}
	for _, v := range voices {
		if b, _, _ := strings.Cut(norm(v.Lang), "-"); b == base {
			return v
		}
	}
	for _, v := range voices {
		if v.Default {
			return v
		}
	}
	return Voice{}
}
