package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges webhooks and health probes.
type StatusResponse struct {
	Status string `json:"status"`
}
