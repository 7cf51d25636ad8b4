package dashboard

import (
	"bytes"
	"net/http"
	"strconv"

	"greensteps/internal/api"
	"greensteps/internal/auth"
	"greensteps/internal/logger"
	"greensteps/internal/waste"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStats godoc
// @Summary      User dashboard
// @Description  Total waste, waste per category, the last seven days and the current reward.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Dashboard
// @Failure      500  {object}  api.ErrorResponse
// @Router       /dashboard/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	d, err := h.service.GetUserDashboard(c.Request.Context(), userID)
	if err != nil {
		logger.Error("get dashboard stats failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, d)
}

// GetAdminStats godoc
// @Summary      System wide waste records and rewards
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(100)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {object}  AdminStats
// @Failure      403     {object}  api.ErrorResponse
// @Router       /dashboard/admin/stats [get]
func (h *Handler) GetAdminStats(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(waste.MaxPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	stats, err := h.service.AdminStats(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("get admin stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCSV godoc
// @Summary      Export waste records as CSV
// @Tags         admin
// @Security     BearerAuth
// @Produce      text/csv
// @Param        limit  query  int  false  "Maximum rows"  default(1000)
// @Success      200    {file}  file
// @Failure      403    {object}  api.ErrorResponse
// @Router       /dashboard/admin/export-csv [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultExportLimit)))

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request.Context(), &buf, limit); err != nil {
		logger.Error("export csv failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=waste_records.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
