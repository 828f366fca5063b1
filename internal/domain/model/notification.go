package model

// DeliveryLink pairs a purchased product with its download token.
type DeliveryLink struct {
	ProductName string
	Token       string
}

// Notification is a delivery request for one order.
type Notification struct {
	OrderID       string
	CustomerPhone string
	CustomerName  string
	Links         []DeliveryLink
}

// DispatchResult describes the outcome of a notification attempt.
type DispatchResult struct {
	Success   bool
	MessageID string
	Simulated bool
	To        string
	Body      string
}

// StatusEvent is one provider delivery-status callback.
type StatusEvent struct {
	MessageID string
	Recipient string
	Status    DeliveryStatus
	Timestamp int64
}
