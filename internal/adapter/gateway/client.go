package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

// RateLimitedError reports a throttled gateway call. It unwraps to ErrUpstream.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("payment gateway rate limited, retry after %s", e.RetryAfter)
}

func (e RateLimitedError) Unwrap() error {
	return domainErrors.ErrUpstream
}

// Credentials authenticate calls against the gateway API.
type Credentials struct {
	KeyID     string
	KeySecret string
}

// OrderRequest describes a payable amount registered with the gateway.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the gateway's view of a payable order.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

// Client creates payment orders on the gateway.
type Client interface {
	CreateOrder(ctx context.Context, creds Credentials, req OrderRequest) (*Order, error)
}

// HTTPClient implements Client via the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewHTTPClient creates gateway client with the given timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
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

// CreateOrder registers amount with the gateway and returns its order handle.
func (c *HTTPClient) CreateOrder(ctx context.Context, creds Credentials, in OrderRequest) (*Order, error) {
	if creds.KeyID == "" || creds.KeySecret == "" {
		return nil, fmt.Errorf("%w: payment gateway credentials not configured", domainErrors.ErrUpstream)
	}

	payload, err := json.Marshal(createOrderRequest{
		Amount:   in.AmountMinor,
		Currency: in.Currency,
		Receipt:  in.Receipt,
		Notes:    in.Notes,
	})
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/orders")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(creds.KeyID, creds.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", slog.String("receipt", in.Receipt), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read gateway response: %v", domainErrors.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var data orderResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("%w: decode gateway order: %v", domainErrors.ErrUpstream, err)
		}
		if data.ID == "" {
			return nil, fmt.Errorf("%w: gateway returned empty order id", domainErrors.ErrUpstream)
		}
		return &Order{ID: data.ID, AmountMinor: data.Amount, Currency: data.Currency, Status: data.Status}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		var gwErr errorResponse
		_ = json.Unmarshal(body, &gwErr)
		c.logger.Error("gateway order rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("receipt", in.Receipt),
			slog.String("code", gwErr.Error.Code),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: gateway status %s", domainErrors.ErrUpstream, resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// IsRateLimited reports whether err carries a gateway throttling signal.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
