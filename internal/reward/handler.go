package reward

import (
	"net/http"

	"greensteps/internal/api"
	"greensteps/internal/auth"
	"greensteps/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetRewards godoc
// @Summary      Current reward and points history
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Summary
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rewards [get]
func (h *Handler) GetRewards(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		logger.Error("get rewards failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAllRewards godoc
// @Summary      Leaderboard of all users by points
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string][]Standing
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rewards/all [get]
func (h *Handler) GetAllRewards(c *gin.Context) {
	standings, err := h.service.Leaderboard(c.Request.Context())
	if err != nil {
		logger.Error("get leaderboard failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": standings})
}

// CheckStreak godoc
// @Summary      Seven day logging streak
// @Tags         rewards
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Streak
// @Failure      500  {object}  api.ErrorResponse
// @Router       /rewards/check-streak [get]
func (h *Handler) CheckStreak(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	streak, err := h.service.CheckStreak(c.Request.Context(), userID)
	if err != nil {
		logger.Error("check streak failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, streak)
}
