package dto

import "time"

// VerifyPaymentRequest carries the gateway confirmation fields.
type VerifyPaymentRequest struct {
	OrderID        string `json:"order_id"`
	PaymentID      string `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Signature      string `json:"signature"`
}

// DownloadLink is one issued download.
type DownloadLink struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	URL         string    `json:"url"`
	Remaining   int       `json:"downloads_remaining"`
}

// VerifyPaymentResponse confirms a paid order.
type VerifyPaymentResponse struct {
	OrderNumber string         `json:"order_number"`
	Status      string         `json:"status"`
	Message     string         `json:"message"`
	Downloads   []DownloadLink `json:"downloads"`
}
