package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/speech"
)

type capabilitiesReq struct {
	Recognition bool           `json:"recognition"`
	Voices      []speech.Voice `json:"voices"`
}

// SpeechCapabilities records what the browser runtime supports.
func (h *Handler) SpeechCapabilities(c *gin.Context) {
	var req capabilitiesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}
	h.Recognizer.SetAvailable(req.Recognition)
	h.Synth.SetVoices(req.Voices)
	ok(c, gin.H{"recognition": req.Recognition, "voices": len(req.Voices)})
}

func (h *Handler) SpeechState(c *gin.Context) {
	ok(c, gin.H{
		"listening":  h.Chat.Listening(),
		"speaking":   h.Chat.Speaking(),
		"transcript": h.Chat.Transcript(),
	})
}

type listenReq struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *Handler) StartListening(c *gin.Context) {
	var req listenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}
	err := h.Chat.ListenFor(req.SessionID)
	switch {
	case err == nil:
		ok(c, gin.H{"listening": true, "session_id": req.SessionID})
	case errors.Is(err, chat.ErrSessionNotFound):
		sessionNotFound(c)
	case errors.Is(err, speech.ErrCapabilityUnavailable):
		fail(c, http.StatusServiceUnavailable, 50301, "speech recognition unavailable")
	default:
		fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}

func (h *Handler) StopListening(c *gin.Context) {
	h.Chat.StopListening()
	ok(c, gin.H{"listening": false})
}

// SpeechEvent receives one recognition event from the browser.
func (h *Handler) SpeechEvent(c *gin.Context) {
	var ev speech.RecognitionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		invalidJSON(c)
		return
	}
	switch ev.Kind {
	case speech.EventInterim, speech.EventFinal, speech.EventEnd, speech.EventError:
	default:
		fail(c, http.StatusBadRequest, 10005, "unknown event kind")
		return
	}
	if err := h.Recognizer.Push(ev); err != nil {
		fail(c, http.StatusConflict, 40903, "not listening")
		return
	}
	ok(c, gin.H{"listening": h.Chat.Listening(), "transcript": h.Chat.Transcript()})
}

type spokenReq struct {
	ID string `json:"id" binding:"required"`
}

// SpeechSpoken marks an utterance as played to the end.
func (h *Handler) SpeechSpoken(c *gin.Context) {
	var req spokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}
	ok(c, gin.H{"matched": h.Synth.Finished(req.ID), "speaking": h.Chat.Speaking()})
}

func (h *Handler) CancelSpeech(c *gin.Context) {
	h.Chat.CancelSpeech()
	ok(c, gin.H{"speaking": false})
}
