package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/middleware"
	"github.com/serenity-app/serenity-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:       log.With("handler", "AnalyticsHandler"),
		analytics: analytics,
	}
}

// Track records a client-side product event. Always returns 200; analytics
// must never break the app.
func (h *AnalyticsHandler) Track(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var body struct {
		EventType  string         `json:"event_type"`
		Properties map[string]any `json:"properties"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.EventType == "" {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.analytics.Track(c.Request.Context(), &userID, body.EventType, body.Properties)
	RespondOK(c, gin.H{"tracked": true})
}
