package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/server/http/handlers"
	"github.com/polkiloo/digistore/internal/server/http/middleware"
)

const downloadPath = "/api/download"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, admin middleware.AdminAuthorizer, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(middleware.CompressResponse(downloadPath))

	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	downloadHandler := handlers.NewDownloadHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Create)
	api.POST("/payments/verify", paymentHandler.Verify)
	api.GET("/download", downloadHandler.Download)

	api.GET("/webhooks/whatsapp", webhookHandler.Verify)
	api.POST("/webhooks/whatsapp", webhookHandler.Receive)

	adminOnly := api.Group("")
	adminOnly.Use(middleware.AdminRequired(admin))
	adminOnly.POST("/notifications/whatsapp", notificationHandler.Send)

	return engine
}
