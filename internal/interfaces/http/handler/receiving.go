package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libsys/acquisitions/internal/application/receiving"
	"github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/interfaces/http/dto"
)

// Receiver drives the receiving use cases
type Receiver interface {
	Receive(ctx context.Context, req receiving.Request) (*receiving.Results, error)
	History(ctx context.Context, limit, offset int, query string) (*orders.ReceivingHistory, error)
}

// ReceivingHandler handles receiving endpoints
type ReceivingHandler struct {
	BaseHandler
	service Receiver
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(service Receiver) *ReceivingHandler {
	return &ReceivingHandler{service: service}
}

// RegisterRoutes registers receiving routes
func (h *ReceivingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/receiving", h.Receive)
	rg.GET("/receiving-history", h.History)
}

// Receive handles POST /receiving
func (h *ReceivingHandler) Receive(c *gin.Context) {
	var req dto.ReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := req.ToDomain()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	results, err := h.service.Receive(c.Request.Context(), batch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewReceivingResults(results))
}

// History handles GET /receiving-history
func (h *ReceivingHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		h.BadRequest(c, "invalid limit")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		h.BadRequest(c, "invalid offset")
		return
	}

	history, err := h.service.History(c.Request.Context(), limit, offset, c.Query("query"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
