package dto

import "github.com/shopspring/decimal"

// ProductRef identifies a product in the cart with its displayed price.
type ProductRef struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CartItem wraps one product line.
type CartItem struct {
	Product ProductRef `json:"product"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items         []CartItem `json:"items"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerName  string     `json:"customer_name,omitempty"`
	WhatsAppOptIn bool       `json:"whatsapp_optin"`
}

// CreateOrderResponse opens the payment sheet on the client.
type CreateOrderResponse struct {
	OrderID          string `json:"order_id"`
	OrderNumber      string `json:"order_number"`
	GatewayOrderID   string `json:"gateway_order_id"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	GatewayPublicKey string `json:"gateway_public_key"`
}
