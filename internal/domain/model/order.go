package model

import "time"

// OrderStatus describes payment lifecycle.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// Order describes a storefront purchase.
type Order struct {
	ID                   string
	Number               string
	CustomerEmail        string
	CustomerPhone        string
	CustomerName         string
	TotalMinor           int64
	Currency             string
	Status               OrderStatus
	DeliveryStatus       DeliveryStatus
	GatewayOrderID       string
	GatewayPaymentID     string
	GatewaySignature     string
	WhatsAppOptIn        bool
	NotificationAttempts int
	ProviderMessageID    string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	PaidAt               *time.Time
}

// OrderItem is a point-in-time snapshot of a purchased product.
type OrderItem struct {
	ID          int64
	OrderID     string
	ProductID   string
	ProductName string
	PriceMinor  int64
	Quantity    int
}

// NewOrder carries validated input for the order ledger.
type NewOrder struct {
	ID            string
	CustomerEmail string
	CustomerPhone string
	CustomerName  string
	Currency      string
	WhatsAppOptIn bool
	Items         []OrderItem
}

// Total sums item prices. Quantity is always one per line item.
func (n NewOrder) Total() int64 {
	var total int64
	for _, item := range n.Items {
		total += item.PriceMinor
	}
	return total
}

// PaymentConfirmation holds gateway identifiers attached on successful payment.
type PaymentConfirmation struct {
	OrderID        string
	GatewayOrderID string
	PaymentID      string
	Signature      string
}
