package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suPer8Hu/health-triage/internal/common"
	"github.com/suPer8Hu/health-triage/internal/httpapi/handlers"
	"github.com/suPer8Hu/health-triage/internal/httpapi/middleware"
)

// NewRouter builds the API. With an empty jwtSecret the chat and speech
// routes are open.
func NewRouter(h *handlers.Handler, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	if jwtSecret != "" {
		api.Use(middleware.AuthRequired(jwtSecret))
	}

	// Chat
	api.GET("/chat/sessions", h.ListChatSessions)
	api.POST("/chat/sessions", h.CreateChatSession)
	api.GET("/chat/sessions/:session_id", h.GetChatSession)
	api.DELETE("/chat/sessions/:session_id", h.DeleteChatSession)
	api.GET("/chat/sessions/:session_id/risk-events", h.ListRiskEvents)
	api.POST("/chat/messages", h.SendChatMessage)
	api.POST("/chat/messages/:message_id/feedback", h.SetMessageFeedback)
	api.GET("/chat/events", h.ChatEvents)
	api.GET("/chat/language", h.GetLanguage)
	api.PUT("/chat/language", h.SetLanguage)

	// Speech bridge
	api.GET("/speech/state", h.SpeechState)
	api.POST("/speech/capabilities", h.SpeechCapabilities)
	api.POST("/speech/listen", h.StartListening)
	api.POST("/speech/stop", h.StopListening)
	api.POST("/speech/events", h.SpeechEvent)
	api.POST("/speech/spoken", h.SpeechSpoken)
	api.POST("/speech/cancel", h.CancelSpeech)
	return r
}
