package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// NotificationHandler exposes the admin resend endpoint.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// Send handles POST /api/notifications/whatsapp.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	links := make([]model.DeliveryLink, 0, len(req.Products))
	for _, p := range req.Products {
		links = append(links, model.DeliveryLink{ProductName: p.Name, Token: p.DownloadToken})
	}

	res, err := h.facade.SendNotification(c.Request.Context(), model.Notification{
		OrderID:       req.OrderID,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Links:         links,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.SendNotificationResponse{
		Success:   res.Success,
		MessageID: res.MessageID,
		Simulated: res.Simulated,
	}
	if res.Simulated {
		resp.Preview = &dto.MessagePreview{To: res.To, Body: res.Body}
	}
	c.JSON(http.StatusOK, resp)
}
