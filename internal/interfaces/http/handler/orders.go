package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appdomain "github.com/libsys/acquisitions/internal/domain/orders"
	"github.com/libsys/acquisitions/internal/domain/shared"
	"github.com/libsys/acquisitions/internal/interfaces/http/dto"
)

// OrderUpdater drives the composite order update use case
type OrderUpdater interface {
	UpdateOrder(ctx context.Context, orderID uuid.UUID, desired *appdomain.Order) error
}

// OrderHandler handles purchase order endpoints
type OrderHandler struct {
	BaseHandler
	service OrderUpdater
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service OrderUpdater) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.PUT("/:id", h.Update)
	}
}

// Update handles PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}
	orderID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req dto.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	// A diverging body id is a business-rule violation, not a malformed request
	if req.ID != "" && req.ID != uri.ID {
		h.HandleError(c, fmt.Errorf("%w: order id in body does not match path", shared.ErrValidation))
		return
	}

	desired, err := req.ToDomain()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateOrder(c.Request.Context(), orderID, desired); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
