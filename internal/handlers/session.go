package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/middleware"
	"github.com/serenity-app/serenity-backend/internal/services"
	"github.com/serenity-app/serenity-backend/internal/types"
)

type SessionHandler struct {
	log            *logger.Logger
	sessionService services.SessionService
	analytics      services.AnalyticsService
}

func NewSessionHandler(log *logger.Logger, sessionService services.SessionService, analytics services.AnalyticsService) *SessionHandler {
	return &SessionHandler{
		log:            log.With("handler", "SessionHandler"),
		sessionService: sessionService,
		analytics:      analytics,
	}
}

// Create accepts the intake payload, creates a "generating" session, and
// returns 202 immediately. Generation runs in the background.
func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var input services.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	session, err := h.sessionService.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.log.Error("Create session failed", "error", err, "user_id", userID)
		RespondError(c, statusForError(err), "create_session_failed", err)
		return
	}
	h.analytics.Track(c.Request.Context(), &userID, "session_created", map[string]any{
		"session_id":       session.ID.String(),
		"duration_minutes": session.DurationSeconds / 60,
	})
	c.JSON(http.StatusAccepted, gin.H{"session_id": session.ID, "status": session.Status})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	detail, err := h.sessionService.Get(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondError(c, statusForError(err), "load_session_failed", err)
		return
	}
	RespondOK(c, detail)
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	sessions, err := h.sessionService.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("List sessions failed", "error", err, "user_id", userID)
		RespondError(c, statusForError(err), "list_sessions_failed", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

// Stream redirects the client to a playable audio URL.
func (h *SessionHandler) Stream(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	url, err := h.sessionService.StreamURL(c.Request.Context(), userID, sessionID)
	if err != nil {
		RespondError(c, statusForError(err), "stream_unavailable", err)
		return
	}
	h.analytics.Track(c.Request.Context(), &userID, "session_played", map[string]any{
		"session_id": sessionID.String(),
	})
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *SessionHandler) Feedback(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	var fb types.SessionFeedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.sessionService.Feedback(c.Request.Context(), userID, sessionID, &fb); err != nil {
		RespondError(c, statusForError(err), "save_feedback_failed", err)
		return
	}
	h.analytics.Track(c.Request.Context(), &userID, "feedback_submitted", map[string]any{
		"session_id": sessionID.String(),
		"rating":     fb.Rating,
	})
	RespondOK(c, gin.H{"saved": true})
}
