package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// respondError maps domain errors onto HTTP statuses. Upstream and internal
// failures get generic bodies; the error itself is attached to the context
// for request logging.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domainErrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domainErrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domainErrors.ErrExpired):
		status, message = http.StatusGone, "download link expired"
	case errors.Is(err, domainErrors.ErrQuotaExceeded):
		status, message = http.StatusTooManyRequests, "download limit reached"
	case errors.Is(err, domainErrors.ErrUpstream):
		if retryAfter, ok := gateway.IsRateLimited(err); ok && retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		}
		status, message = http.StatusBadGateway, "upstream provider unavailable"
	default:
		status, message = http.StatusInternalServerError, "internal error"
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}
