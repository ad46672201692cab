package speech

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/health-triage/internal/locale"
)

type fakeRecognizer struct {
	startErr error
	locale   string
	sink     func(RecognitionEvent)
	starts   int
	stops    int
}

func (f *fakeRecognizer) Start(locale string, sink func(RecognitionEvent)) error {
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.locale = locale
	f.sink = sink
	return nil
}

func (f *fakeRecognizer) Stop() { f.stops++ }

func (f *fakeRecognizer) emit(kind EventKind, transcript string) {
	f.sink(RecognitionEvent{Kind: kind, Transcript: transcript})
}

type inputHarness struct {
	rec    *fakeRecognizer
	ctrl   *InputController
	sent   []UtteranceCompleted
	errs   []error
	delays []time.Duration
}

func newInputHarness(t *testing.T) *inputHarness {
	t.Helper()
	h := &inputHarness{rec: &fakeRecognizer{}}
	h.ctrl = NewInputController(h.rec,
		func(u UtteranceCompleted) { h.sent = append(h.sent, u) },
		WithSettleDelay(250*time.Millisecond),
		OnError(func(err error) { h.errs = append(h.errs, err) }),
	)
	h.ctrl.afterFunc = func(d time.Duration, f func()) {
		h.delays = append(h.delays, d)
		f()
	}
	return h
}

func TestInput_StartUsesLocale(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.Hindi))
	assert.Equal(t, "hi-IN", h.rec.locale)
	assert.Equal(t, Listening, h.ctrl.State())
}

func TestInput_Unavailable(t *testing.T) {
	c := NewInputController(nil, func(UtteranceCompleted) { t.Fatal("unexpected auto-send") })
	err := c.Start(locale.English)
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
	assert.Equal(t, Idle, c.State())
}

func TestInput_FinalTranscriptAutoSends(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))

	h.rec.emit(EventInterim, "I have")
	assert.Equal(t, "I have", h.ctrl.Transcript())
	h.rec.emit(EventInterim, "I have a head")
	h.rec.emit(EventFinal, "I have a headache")
	assert.Equal(t, "I have a headache", h.ctrl.Transcript())
	h.rec.emit(EventEnd, "")

	assert.Equal(t, Idle, h.ctrl.State())
	require.Len(t, h.sent, 1)
	assert.Equal(t, UtteranceCompleted{Transcript: "I have a headache", Language: locale.English}, h.sent[0])
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, h.delays)
}

func TestInput_EmptyTranscriptNeverSends(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))
	h.rec.emit(EventFinal, "   ")
	h.rec.emit(EventEnd, "")

	assert.Empty(t, h.sent)
	assert.Equal(t, Idle, h.ctrl.State())
}

func TestInput_StopWithoutTranscript(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))
	sink := h.rec.sink

	h.ctrl.Stop()
	assert.Equal(t, 1, h.rec.stops)
	sink(RecognitionEvent{Kind: EventFinal, Transcript: "late words"})
	sink(RecognitionEvent{Kind: EventEnd})

	assert.Empty(t, h.sent)
}

func TestInput_StopWithTranscriptSendsOnce(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.Urdu))
	h.rec.emit(EventInterim, "mujhe bukhar hai")

	h.ctrl.Stop()
	h.rec.emit(EventEnd, "")

	require.Len(t, h.sent, 1)
	assert.Equal(t, "mujhe bukhar hai", h.sent[0].Transcript)
	assert.Equal(t, locale.Urdu, h.sent[0].Language)

	h.ctrl.Stop()
	assert.Len(t, h.sent, 1)
}

func TestInput_NoSpeechSwallowed(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))
	h.rec.sink(RecognitionEvent{Kind: EventError, Error: ErrorNoSpeech})

	assert.Empty(t, h.errs)
	assert.Equal(t, Idle, h.ctrl.State())
}

func TestInput_OtherErrorsSurface(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))
	h.rec.emit(EventInterim, "partial")
	h.rec.sink(RecognitionEvent{Kind: EventError, Error: "network"})

	require.Len(t, h.errs, 1)
	var re *RecognitionError
	require.True(t, errors.As(h.errs[0], &re))
	assert.Equal(t, "network", re.Kind)
	assert.Equal(t, Idle, h.ctrl.State())

	require.NoError(t, h.ctrl.Start(locale.English), "can retry after an error")
	assert.Empty(t, h.sent)
}

func TestInput_RestartDisplacesPreviousSession(t *testing.T) {
	h := newInputHarness(t)
	require.NoError(t, h.ctrl.Start(locale.English))
	old := h.rec.sink
	old(RecognitionEvent{Kind: EventFinal, Transcript: "first"})

	require.NoError(t, h.ctrl.Start(locale.English))
	assert.Equal(t, 1, h.rec.stops)
	assert.Equal(t, "", h.ctrl.Transcript())

	old(RecognitionEvent{Kind: EventEnd})
	assert.Empty(t, h.sent)

	h.rec.emit(EventFinal, "second")
	h.rec.emit(EventEnd, "")
	require.Len(t, h.sent, 1)
	assert.Equal(t, "second", h.sent[0].Transcript)
}
