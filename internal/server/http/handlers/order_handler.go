package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
	"github.com/polkiloo/digistore/internal/usecase"
)

// OrderHandler manages checkout endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.CartItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
		})
	}

	res, err := h.facade.CreateOrder(c.Request.Context(), model.CheckoutRequest{
		Items:         items,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		WhatsAppOptIn: req.WhatsAppOptIn,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateOrderResponse{
		OrderID:          res.OrderID,
		OrderNumber:      res.OrderNumber,
		GatewayOrderID:   res.GatewayOrderID,
		AmountMinorUnits: res.AmountMinor,
		Amount:           usecase.FromMinorUnits(res.AmountMinor).StringFixed(2),
		Currency:         res.Currency,
		GatewayPublicKey: res.GatewayPublicKey,
	})
}
