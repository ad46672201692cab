package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/locale"
)

func (h *Handler) ListChatSessions(c *gin.Context) {
	ok(c, gin.H{"sessions": h.Chat.Store().List()})
}

func (h *Handler) GetChatSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	sess, found := h.Chat.Store().Get(sessionID)
	if !found {
		sessionNotFound(c)
		return
	}
	ok(c, gin.H{
		"session":   sess,
		"in_flight": h.Chat.InFlight(sessionID),
	})
}

type createSessionReq struct {
	GreetingName string `json:"greeting_name"`
}

func (h *Handler) CreateChatSession(c *gin.Context) {
	var req createSessionReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	sess := h.Chat.Store().Create(c.Request.Context(), req.GreetingName)
	ok(c, gin.H{"session_id": sess.ID, "session": sess})
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	store := h.Chat.Store()
	if _, found := store.Get(sessionID); !found {
		sessionNotFound(c)
		return
	}
	if !store.Delete(c.Request.Context(), sessionID) {
		fail(c, http.StatusConflict, 40902, "cannot delete the last session")
		return
	}
	ok(c, gin.H{"session_id": sessionID, "deleted": true})
}

type sendMessageReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
	ViaVoice  bool   `json:"via_voice"`
	// Wait holds the response until the assistant reply is appended.
	Wait bool `json:"wait"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}

	replies, err := h.Chat.SendMessage(req.SessionID, req.Message, req.ViaVoice)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, 10002, "message is empty")
		case errors.Is(err, chat.ErrSessionNotFound):
			sessionNotFound(c)
		case errors.Is(err, chat.ErrSendInFlight):
			fail(c, http.StatusConflict, 40901, "a reply is still pending for this session")
		default:
			log.Printf("[SendChatMessage] failed session_id=%s err=%v", req.SessionID, err)
			fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	if !req.Wait {
		c.JSON(http.StatusAccepted, gin.H{
			"code":    0,
			"message": "accepted",
			"data":    gin.H{"session_id": req.SessionID},
		})
		return
	}

	select {
	case reply, open := <-replies:
		if !open {
			sessionNotFound(c)
			return
		}
		ok(c, gin.H{
			"session_id": req.SessionID,
			"reply":      reply,
		})
	case <-c.Request.Context().Done():
	}
}

type feedbackReq struct {
	SessionID string        `json:"session_id" binding:"required"`
	Feedback  chat.Feedback `json:"feedback"`
}

func (h *Handler) SetMessageFeedback(c *gin.Context) {
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}
	messageID := c.Param("message_id")

	err := h.Chat.Store().SetFeedback(c.Request.Context(), req.SessionID, messageID, req.Feedback)
	switch {
	case err == nil:
		ok(c, gin.H{"message_id": messageID, "feedback": req.Feedback})
	case errors.Is(err, chat.ErrInvalidFeedback):
		fail(c, http.StatusBadRequest, 10003, "feedback must be like, dislike or empty")
	case errors.Is(err, chat.ErrSessionNotFound):
		sessionNotFound(c)
	case errors.Is(err, chat.ErrMessageNotFound):
		fail(c, http.StatusNotFound, 40005, "message not found")
	default:
		fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}

func (h *Handler) ListRiskEvents(c *gin.Context) {
	if h.RiskLog == nil {
		fail(c, http.StatusNotFound, 40006, "risk log not enabled")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.RiskLog.ListBySession(c.Request.Context(), c.Param("session_id"), limit)
	if err != nil {
		log.Printf("[ListRiskEvents] failed session_id=%s err=%v", c.Param("session_id"), err)
		fail(c, http.StatusInternalServerError, 50002, "failed to list risk events")
		return
	}
	ok(c, gin.H{"events": events})
}

func (h *Handler) GetLanguage(c *gin.Context) {
	lang := h.Chat.Language()
	ok(c, gin.H{
		"language":  lang,
		"code":      lang.Code(),
		"languages": locale.All(),
	})
}

type languageReq struct {
	Language string `json:"language" binding:"required"`
}

func (h *Handler) SetLanguage(c *gin.Context) {
	var req languageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidJSON(c)
		return
	}
	lang, err := locale.Parse(req.Language)
	if err == nil {
		err = h.Chat.SetLanguage(lang)
	}
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "unsupported language")
		return
	}
	ok(c, gin.H{"language": lang, "code": lang.Code()})
}

// ChatEvents streams controller events as SSE until the client leaves.
func (h *Handler) ChatEvents(c *gin.Context) {
	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // helpful if behind nginx

	// avoid gin writing a JSON response later
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	if !canFlush {
		fmt.Fprintf(c.Writer, "event: error\ndata: flusher not supported\n\n")
		return
	}

	events, cancel := h.Broker.Subscribe(64)
	defer cancel()

	// heartbeat ticker (keeps connections alive)
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	writeJSON := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			// last-resort: send a simple error that won't break SSE framing
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		if event != "" {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	writeJSON("ready", gin.H{
		"type":     "ready",
		"language": h.Chat.Language(),
	})

	ctx := c.Request.Context()
	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			writeJSON(ev.Type, ev)

		case <-ticker.C:
			writeJSON("ping", gin.H{
				"type": "ping",
				"ts":   time.Now().Unix(),
			})

		case <-ctx.Done():
			return
		}
	}
}
