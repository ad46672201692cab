package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/locale"
)

func TestBridgeRecognizer_RoundTrip(t *testing.T) {
	var cmds []Command
	rec := NewBridgeRecognizer(func(c Command) { cmds = append(cmds, c) })

	var sent []string
	ctrl := NewInputController(rec, func(u UtteranceCompleted) { sent = append(sent, u.Transcript) })
	ctrl.afterFunc = func(_ time.Duration, f func()) { f() }

	require.NoError(t, ctrl.Start(locale.English))
	require.Len(t, cmds, 1)
	assert.Equal(t, Command{Action: ActionListen, Locale: "en-IN"}, cmds[0])

	require.NoError(t, rec.Push(RecognitionEvent{Kind: EventFinal, Transcript: "my back hurts"}))
	require.NoError(t, rec.Push(RecognitionEvent{Kind: EventEnd}))
	assert.Equal(t, []string{"my back hurts"}, sent)

	assert.ErrorIs(t, rec.Push(RecognitionEvent{Kind: EventInterim}), ErrNotListening)
}

func TestBridgeRecognizer_Unavailable(t *testing.T) {
	rec := NewBridgeRecognizer(func(Command) {})
	rec.SetAvailable(false)
	assert.ErrorIs(t, rec.Start("en-IN", func(RecognitionEvent) {}), ErrCapabilityUnavailable)
}

func TestBroadcastSynthesizer(t *testing.T) {
	var cmds []Command
	s := NewBroadcastSynthesizer(func(c Command) { cmds = append(cmds, c) })
	s.SetVoices([]Voice{{Name: "Lekha", Lang: "hi-IN"}})
	c := NewOutputController(s)

	c.Speak("namaste", locale.Hindi)
	require.Len(t, cmds, 1)
	assert.Equal(t, ActionSpeak, cmds[0].Action)
	require.NotNil(t, cmds[0].Voice)
	assert.Equal(t, "Lekha", cmds[0].Voice.Name)
	assert.True(t, c.Speaking())

	assert.True(t, s.Finished(cmds[0].ID))
	assert.False(t, c.Speaking())
	assert.False(t, s.Finished(cmds[0].ID))

	c.Speak("again", locale.Hindi)
	c.Cancel()
	assert.Equal(t, ActionCancelSpeech, cmds[len(cmds)-1].Action)
}
