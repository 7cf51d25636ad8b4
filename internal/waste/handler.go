package waste

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) bindEntry(c *gin.Context) (Entry, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: ErrInvalidEntry.Error()})
		return Entry{}, false
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return Entry{}, false
	}

	entry, err := req.Entry()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return Entry{}, false
	}
	return entry, true
}

func recordIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("recordId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid record id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidEntry), errors.Is(err, ErrCategoryNotFound):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrRecordNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Waste record not found"})
	default:
		logger.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// AddWaste godoc
// @Summary      Log a waste entry
// @Description  Stores the entry and credits two points per unit. Reward failures do not fail the request.
// @Tags         waste
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      EntryRequest  true  "Waste entry"
// @Success      201      {object}  AddResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /waste/add [post]
func (h *Handler) AddWaste(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	entry, ok := h.bindEntry(c)
	if !ok {
		return
	}

	result, err := h.service.AddEntry(c.Request.Context(), userID, entry)
	if err != nil {
		h.writeError(c, "add waste", err)
		return
	}

	c.JSON(http.StatusCreated, AddResponse{
		Message:       "Waste entry added successfully",
		RecordID:      result.RecordID,
		PointsAwarded: result.Reward.PointsAwarded(),
		Reward:        result.Reward.Award,
	})
}

// ListWaste godoc
// @Summary      List own waste entries
// @Tags         waste
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(20)
// @Success      200    {object}  ListResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /waste/list [get]
func (h *Handler) ListWaste(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	page, limit = Paginate(page, limit)

	records, err := h.service.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.writeError(c, "list waste", err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Records: records, Page: page, Limit: limit})
}

// UpdateWaste godoc
// @Summary      Update own waste entry
// @Tags         waste
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        recordId  path      int           true  "Record ID"
// @Param        request   body      EntryRequest  true  "Waste entry"
// @Success      200       {object}  api.MessageResponse
// @Failure      400       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /waste/{recordId} [put]
func (h *Handler) UpdateWaste(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	recordID, ok := recordIDParam(c)
	if !ok {
		return
	}
	entry, ok := h.bindEntry(c)
	if !ok {
		return
	}

	if err := h.service.Update(c.Request.Context(), recordID, userID, entry); err != nil {
		h.writeError(c, "update waste", err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Waste entry updated successfully"})
}

// DeleteWaste godoc
// @Summary      Delete own waste entry
// @Tags         waste
// @Security     BearerAuth
// @Produce      json
// @Param        recordId  path      int  true  "Record ID"
// @Success      200       {object}  api.MessageResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /waste/{recordId} [delete]
func (h *Handler) DeleteWaste(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	recordID, ok := recordIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), recordID, userID); err != nil {
		h.writeError(c, "delete waste", err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Waste entry deleted successfully"})
}

// GetWasteTypes godoc
// @Summary      List waste categories
// @Tags         waste
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string][]Category
// @Router       /waste/types [get]
func (h *Handler) GetWasteTypes(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, "get waste types", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"types": categories})
}

// ListAllWaste godoc
// @Summary      List all waste entries
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(100)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {object}  map[string][]Record
// @Failure      403     {object}  api.ErrorResponse
// @Router       /admin/waste [get]
func (h *Handler) ListAllWaste(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(MaxPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.service.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, "list all waste", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
