package dto

// NotificationProduct pairs a product name with its download token.
type NotificationProduct struct {
	Name          string `json:"name"`
	DownloadToken string `json:"download_token"`
}

// SendNotificationRequest is the admin resend payload.
type SendNotificationRequest struct {
	OrderID       string                `json:"order_id"`
	CustomerPhone string                `json:"customer_phone"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Products      []NotificationProduct `json:"products"`
}

// MessagePreview is the message that would have been sent in dry-run mode.
type MessagePreview struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendNotificationResponse reports the dispatch outcome.
type SendNotificationResponse struct {
	Success   bool            `json:"success"`
	MessageID string          `json:"message_id,omitempty"`
	Simulated bool            `json:"simulated,omitempty"`
	Preview   *MessagePreview `json:"preview,omitempty"`
}
