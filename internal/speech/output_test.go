package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/locale"
)

type fakeSynth struct {
	voices  []Voice
	spoken  []Utterance
	dones   []func()
	cancels int
}

func (f *fakeSynth) Voices() []Voice { return f.voices }

func (f *fakeSynth) Speak(u Utterance, done func()) error {
	f.spoken = append(f.spoken, u)
	f.dones = append(f.dones, done)
	return nil
}

func (f *fakeSynth) Cancel() { f.cancels++ }

func TestSanitize(t *testing.T) {
	in := "## Symptom Analysis 🩺\n\n**Risk Assessment: 3/10**\n- Drink water\n- Rest [here](http://x)\nDone!"
	assert.Equal(t, "Symptom Analysis. Risk Assessment: 3/10. Drink water. Rest here. Done!", Sanitize(in))
}

func TestSanitize_KeepsScripts(t *testing.T) {
	assert.Equal(t, "आराम करें। पानी पिएं", Sanitize("आराम करें।\n\n*पानी पिएं*"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello big", Truncate("hello big world", 12))
	assert.Equal(t, "abcdefghij", Truncate("abcdefghijklmnop", 10))
}

func TestOutput_SpeakPicksLocaleVoice(t *testing.T) {
	s := &fakeSynth{voices: []Voice{
		{Name: "Default", Lang: "en-US", Default: true},
		{Name: "Lekha", Lang: "hi_IN"},
	}}
	var states []bool
	c := NewOutputController(s, OnSpeakingChange(func(b bool) { states = append(states, b) }))

	c.Speak("**Namaste**", locale.Hindi)
	require.Len(t, s.spoken, 1)
	assert.Equal(t, "Namaste", s.spoken[0].Text)
	assert.Equal(t, "hi-IN", s.spoken[0].Locale)
	assert.Equal(t, "Lekha", s.spoken[0].Voice.Name)
	assert.True(t, c.Speaking())

	s.dones[0]()
	assert.False(t, c.Speaking())
	assert.Equal(t, []bool{true, false}, states)
}

func TestOutput_FallsBackToDefaultVoice(t *testing.T) {
	s := &fakeSynth{voices: []Voice{{Name: "Alex", Lang: "en-US"}, {Name: "Fallback", Lang: "fr-FR", Default: true}}}
	c := NewOutputController(s)

	c.Speak("salaam", locale.Urdu)
	assert.Equal(t, "Fallback", s.spoken[0].Voice.Name)

	c.Speak("hello", locale.English)
	assert.Equal(t, "Alex", s.spoken[1].Voice.Name, "same base language")
}

func TestOutput_SpeakCancelsPrevious(t *testing.T) {
	s := &fakeSynth{}
	c := NewOutputController(s)

	c.Speak("first", locale.English)
	c.Speak("second", locale.English)
	assert.Equal(t, 1, s.cancels)
	assert.True(t, c.Speaking())

	s.dones[0]()
	assert.True(t, c.Speaking(), "stale completion is ignored")
	s.dones[1]()
	assert.False(t, c.Speaking())
}

func TestOutput_TruncatesToMaxChars(t *testing.T) {
	s := &fakeSynth{}
	c := NewOutputController(s, WithMaxChars(12))
	c.Speak("one two three four five", locale.English)
	assert.Equal(t, "one two", s.spoken[0].Text)
}

func TestOutput_CancelIdempotent(t *testing.T) {
	s := &fakeSynth{}
	c := NewOutputController(s)
	c.Cancel()
	assert.Equal(t, 0, s.cancels)

	c.Speak("hello", locale.English)
	c.Cancel()
	c.Cancel()
	assert.Equal(t, 1, s.cancels)
	assert.False(t, c.Speaking())
}

func TestOutput_UnavailableWarnsOnce(t *testing.T) {
	var warnings []error
	c := NewOutputController(nil, OnWarning(func(err error) { warnings = append(warnings, err) }))
	c.Speak("hello", locale.English)
	c.Speak("again", locale.English)

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrCapabilityUnavailable)
	assert.False(t, c.Speaking())
}
