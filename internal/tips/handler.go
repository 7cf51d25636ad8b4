package tips

import (
	"net/http"

	"greensteps/internal/api"
	"greensteps/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetTips godoc
// @Summary      Personalized waste reduction tips
// @Description  Cached per user for an hour. Falls back to local tips when the advisor is unavailable.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Failure      401  {object}  api.ErrorResponse
// @Failure      429  {object}  api.ErrorResponse
// @Router       /dashboard/tips [get]
func (h *Handler) GetTips(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": h.service.GetTips(c.Request.Context(), userID)})
}
