package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/server/http/dto"
)

const (
	maxWebhookBody  = 1 << 20
	signatureHeader = "X-Hub-Signature-256"
)

// WebhookHandler receives messaging provider callbacks.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Verify handles the GET subscription handshake.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.facade.VerifyWebhook(c.Request.Context(),
		c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, domainErrors.ErrUnauthorized) {
			c.String(http.StatusForbidden, "forbidden")
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive handles POST status callbacks. The provider always gets 200.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
		return
	}

	h.facade.HandleWebhook(c.Request.Context(), body, c.GetHeader(signatureHeader))
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}
