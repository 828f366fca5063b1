package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

// Credentials identify the sending business number.
type Credentials struct {
	AccessToken   string
	PhoneNumberID string
}

// Messenger delivers plain text messages to a customer.
type Messenger interface {
	SendText(ctx context.Context, creds Credentials, to, body string) (string, error)
}

// HTTPClient implements Messenger over the Cloud API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NewHTTPClient creates messaging client with the given timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse whatsapp url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("whatsapp url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SendText posts a text message and returns the provider message id.
func (c *HTTPClient) SendText(ctx context.Context, creds Credentials, to, body string) (string, error) {
	if creds.AccessToken == "" || creds.PhoneNumberID == "" {
		return "", fmt.Errorf("%w: whatsapp credentials not configured", domainErrors.ErrUpstream)
	}

	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{PreviewURL: true, Body: body},
	})
	if err != nil {
		return "", err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, creds.PhoneNumberID, "messages")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("whatsapp request failed", slog.String("to", to), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domainErrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read whatsapp response: %v", domainErrors.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("whatsapp message rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("to", to),
			slog.String("body", string(raw)),
		)
		return "", fmt.Errorf("%w: whatsapp status %s", domainErrors.ErrUpstream, resp.Status)
	}

	var data sendResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("%w: decode whatsapp response: %v", domainErrors.ErrUpstream, err)
	}
	if len(data.Messages) == 0 || data.Messages[0].ID == "" {
		return "", fmt.Errorf("%w: whatsapp returned no message id", domainErrors.ErrUpstream)
	}
	return data.Messages[0].ID, nil
}
