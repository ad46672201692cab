package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/common"
	"github.com/suPer8Hu/health-triage/internal/speech"
	"github.com/suPer8Hu/health-triage/internal/store/sqlstore"
)

type Handler struct {
	Chat       *chat.Controller
	Broker     *chat.Broker
	Recognizer *speech.BridgeRecognizer
	Synth      *speech.BroadcastSynthesizer
	// RiskLog is nil unless sessions are kept in a SQL database.
	RiskLog *sqlstore.RiskLog
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}

func ok(c *gin.Context, data any) { common.OK(c, data) }

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	common.Fail(c, httpStatus, code, msg)
}

func invalidJSON(c *gin.Context) {
	fail(c, http.StatusBadRequest, 10001, "invalid json")
}

func sessionNotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, 40004, "session not found")
}
