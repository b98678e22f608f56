package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/middleware"
	"github.com/serenity-app/serenity-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, statusForError(err), "load_user_failed", err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}
