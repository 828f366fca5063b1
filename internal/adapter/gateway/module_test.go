package gateway

import (
	"testing"
	"time"

	"github.com/polkiloo/digistore/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{GatewayAPIURL: "https://api.example.com", UpstreamTimeout: 3 * time.Second}
	client, err := newClient(clientParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	httpClient, ok := client.(*HTTPClient)
	if !ok {
		t.Fatalf("expected *HTTPClient, got %T", client)
	}
	if httpClient.httpClient.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", httpClient.httpClient.Timeout)
	}
}
