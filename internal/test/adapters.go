package test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/polkiloo/digistore/internal/adapter/gateway"
	"github.com/polkiloo/digistore/internal/adapter/whatsapp"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/storage/files"
)

// GatewayStub records created gateway orders.
type GatewayStub struct {
	CreateFn func(context.Context, gateway.Credentials, gateway.OrderRequest) (*gateway.Order, error)

	mu       sync.Mutex
	Requests []gateway.OrderRequest
}

// CreateOrder delegates to override or returns a deterministic order handle.
func (s *GatewayStub) CreateOrder(ctx context.Context, creds gateway.Credentials, req gateway.OrderRequest) (*gateway.Order, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	n := len(s.Requests)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, creds, req)
	}
	return &gateway.Order{ID: fmt.Sprintf("order_stub_%d", n), AmountMinor: req.AmountMinor, Currency: req.Currency, Status: "created"}, nil
}

// SentMessage captures one SendText call.
type SentMessage struct {
	Creds whatsapp.Credentials
	To    string
	Body  string
}

// MessengerStub records outbound messages.
type MessengerStub struct {
	SendFn func(context.Context, whatsapp.Credentials, string, string) (string, error)

	mu   sync.Mutex
	Sent []SentMessage
}

// SendText records the call and returns a provider-like message id.
func (s *MessengerStub) SendText(ctx context.Context, creds whatsapp.Credentials, to, body string) (string, error) {
	s.mu.Lock()
	s.Sent = append(s.Sent, SentMessage{Creds: creds, To: to, Body: body})
	n := len(s.Sent)
	s.mu.Unlock()
	if s.SendFn != nil {
		return s.SendFn(ctx, creds, to, body)
	}
	return fmt.Sprintf("wamid.stub%d", n), nil
}

// Count returns number of messages sent.
func (s *MessengerStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

// FileStoreStub serves in-memory file contents by key.
type FileStoreStub struct {
	Files  map[string]string
	OpenFn func(context.Context, string) (*files.Object, error)
}

// Open returns configured content or not found.
func (s *FileStoreStub) Open(ctx context.Context, key string) (*files.Object, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, key)
	}
	content, ok := s.Files[key]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", domainErrors.ErrNotFound, key)
	}
	return &files.Object{Body: io.NopCloser(strings.NewReader(content)), Size: int64(len(content))}, nil
}

// SettingsStub returns fixed settings.
type SettingsStub struct {
	Settings model.Settings
	Err      error
}

// Load returns a copy of configured settings.
func (s *SettingsStub) Load(ctx context.Context) (*model.Settings, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	copied := s.Settings
	return &copied, nil
}
