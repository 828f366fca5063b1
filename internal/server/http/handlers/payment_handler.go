package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// PaymentHandler manages payment confirmation.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Verify handles POST /api/payments/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.facade.VerifyPayment(c.Request.Context(), model.PaymentConfirmation{
		OrderID:        req.OrderID,
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	downloads := make([]dto.DownloadLink, 0, len(res.Downloads))
	for _, d := range res.Downloads {
		downloads = append(downloads, dto.DownloadLink{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Token:       d.Token,
			ExpiresAt:   d.ExpiresAt,
			URL:         d.URL,
			Remaining:   d.Remaining,
		})
	}

	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		OrderNumber: res.OrderNumber,
		Status:      string(res.Status),
		Message:     res.Message,
		Downloads:   downloads,
	})
}
