package model

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line as submitted by the storefront.
type CartItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
}

// CheckoutRequest carries the cart and customer contact.
type CheckoutRequest struct {
	Items         []CartItem
	CustomerEmail string
	CustomerPhone string
	CustomerName  string
	WhatsAppOptIn bool
}

// CheckoutResult is returned to the client to open the payment sheet.
type CheckoutResult struct {
	OrderID          string
	OrderNumber      string
	GatewayOrderID   string
	AmountMinor      int64
	Currency         string
	GatewayPublicKey string
}

// Download describes one issued download link.
type Download struct {
	ProductID   string
	ProductName string
	Token       string
	ExpiresAt   time.Time
	URL         string
	Remaining   int
}

// PaymentResult confirms a paid order.
type PaymentResult struct {
	OrderNumber string
	Status      OrderStatus
	Message     string
	Downloads   []Download
}

// FileDownload is an open file ready to stream. The caller closes Body.
type FileDownload struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
	Size        int64
	Remaining   int
}

// WebhookSummary counts what one webhook delivery did.
type WebhookSummary struct {
	Statuses int
	Applied  int
	Messages int
	Dropped  bool
}
