package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var testCreds = Credentials{KeyID: "rzp_test_key", KeySecret: "secret"}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	client, err := NewHTTPClient("https://api.example.com", 0, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.httpClient.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %v", client.httpClient.Timeout)
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != testCreds.KeyID || pass != testCreds.KeySecret {
			t.Errorf("unexpected basic auth %q %q", user, pass)
		}
		var body createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Amount != 29800 || body.Currency != "INR" || body.Receipt != "DG-20240101-001000" {
			t.Errorf("unexpected body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_Abc","amount":29800,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	order, err := client.CreateOrder(context.Background(), testCreds, OrderRequest{
		AmountMinor: 29800,
		Currency:    "INR",
		Receipt:     "DG-20240101-001000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order_Abc" || order.AmountMinor != 29800 || order.Status != "created" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestCreateOrderFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  http.Header
		body    string
		limited bool
	}{
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`},
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "empty id", status: http.StatusOK, body: `{"id":""}`},
		{name: "bad json", status: http.StatusOK, body: `{`},
		{name: "throttled", status: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"3"}}, limited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, time.Second, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.CreateOrder(context.Background(), testCreds, OrderRequest{AmountMinor: 100, Currency: "INR"})
			if !errors.Is(err, domainErrors.ErrUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
			retry, limited := IsRateLimited(err)
			if limited != tt.limited {
				t.Fatalf("expected limited=%v, got %v", tt.limited, limited)
			}
			if tt.limited && retry != 3*time.Second {
				t.Fatalf("expected retry after 3s, got %v", retry)
			}
		})
	}
}

func TestCreateOrderRequiresCredentials(t *testing.T) {
	client, err := NewHTTPClient("http://127.0.0.1:1", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.CreateOrder(context.Background(), Credentials{KeyID: "id"}, OrderRequest{}); !errors.Is(err, domainErrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestCreateOrderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewHTTPClient(url, time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.CreateOrder(context.Background(), testCreds, OrderRequest{AmountMinor: 1}); !errors.Is(err, domainErrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	httpTime := time.Now().Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime, want: 2 * time.Second},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
