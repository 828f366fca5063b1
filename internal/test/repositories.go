package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/pkg/phone"
)

// MemoryStore implements every repository in memory with the same
// conditional-update semantics as the SQL adapters.
type MemoryStore struct {
	mu sync.Mutex

	OrdersByID map[string]*model.Order
	ItemsByID  map[string][]model.OrderItem
	TokensByID map[string]*model.DownloadToken
	Products   map[string]*model.ProductFile
	Values     map[string]string

	CreateFn      func(context.Context, model.NewOrder) (*model.Order, error)
	TokenErrs     map[string]error
	SettingsErr   error
	RecordErr     error
	SetGatewayErr error

	Notifications []NotificationRecord
	seq           int64
	nextItemID    int64
	nextTokenID   int64
}

// NotificationRecord stores RecordNotification invocations.
type NotificationRecord struct {
	OrderID   string
	MessageID string
	Sent      bool
}

// NewMemoryStore constructs store with initialized maps.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		OrdersByID: make(map[string]*model.Order),
		ItemsByID:  make(map[string][]model.OrderItem),
		TokensByID: make(map[string]*model.DownloadToken),
		Products:   make(map[string]*model.ProductFile),
		Values:     make(map[string]string),
		seq:        1000,
	}
}

// PutOrder seeds an order directly.
func (s *MemoryStore) PutOrder(order model.Order, items ...model.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := order
	s.OrdersByID[o.ID] = &o
	if len(items) > 0 {
		s.ItemsByID[o.ID] = append([]model.OrderItem(nil), items...)
	}
}

// Order returns a copy of the stored order.
func (s *MemoryStore) Order(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.OrdersByID[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// TokenCount counts tokens minted for orderID.
func (s *MemoryStore) TokenCount(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.TokensByID {
		if t.OrderID == orderID {
			n++
		}
	}
	return n
}

// --- OrderRepository ---

func (s *MemoryStore) Create(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.seq++
	order := &model.Order{
		ID:             in.ID,
		Number:         fmt.Sprintf("DG-%s-%06d", now.UTC().Format("20060102"), s.seq),
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		CustomerName:   in.CustomerName,
		TotalMinor:     in.Total(),
		Currency:       in.Currency,
		Status:         model.OrderStatusPending,
		DeliveryStatus: model.DeliveryStatusPending,
		WhatsAppOptIn:  in.WhatsAppOptIn,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		s.nextItemID++
		it.ID = s.nextItemID
		it.OrderID = order.ID
		if it.Quantity <= 0 {
			it.Quantity = 1
		}
		items = append(items, it)
	}
	s.OrdersByID[order.ID] = order
	s.ItemsByID[order.ID] = items
	copied := *order
	return &copied, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.OrdersByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *MemoryStore) Items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderItem(nil), s.ItemsByID[orderID]...), nil
}

func (s *MemoryStore) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetGatewayErr != nil {
		return s.SetGatewayErr
	}
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.GatewayOrderID = gatewayOrderID
	return nil
}

func (s *MemoryStore) MarkFailed(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.OrdersByID[orderID]; ok && o.Status == model.OrderStatusPending {
		o.Status = model.OrderStatusFailed
	}
	return nil
}

func (s *MemoryStore) MarkPaid(ctx context.Context, c model.PaymentConfirmation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.OrdersByID[c.OrderID]
	if !ok || o.Status != model.OrderStatusPending {
		return false, nil
	}
	now := time.Now()
	o.Status = model.OrderStatusPaid
	o.GatewayPaymentID = c.PaymentID
	o.GatewaySignature = c.Signature
	if o.GatewayOrderID == "" {
		o.GatewayOrderID = c.GatewayOrderID
	}
	o.DeliveryStatus = model.DeliveryStatusPending
	o.PaidAt = &now
	return true, nil
}

func (s *MemoryStore) RecordNotification(ctx context.Context, orderID, messageID string, sent bool) error {
	if s.RecordErr != nil {
		return s.RecordErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.NotificationAttempts++
	if sent {
		o.ProviderMessageID = messageID
		o.DeliveryStatus = o.DeliveryStatus.Advance(model.DeliveryStatusSent)
	}
	s.Notifications = append(s.Notifications, NotificationRecord{OrderID: orderID, MessageID: messageID, Sent: sent})
	return nil
}

func (s *MemoryStore) FindByProviderMessageID(ctx context.Context, messageID string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.OrdersByID {
		if o.ProviderMessageID != "" && o.ProviderMessageID == messageID {
			result = append(result, *o)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *MemoryStore) FindPaidByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.OrdersByID {
		if o.Status == model.OrderStatusPaid && phone.Suffix(o.CustomerPhone) == suffix {
			result = append(result, *o)
		}
	}
	sortNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) AdvanceDeliveryStatus(ctx context.Context, orderID string, status model.DeliveryStatus) (bool, error) {
	if !status.Valid() {
		return false, domainErrors.ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.OrdersByID[orderID]
	if !ok {
		return false, nil
	}
	next := o.DeliveryStatus.Advance(status)
	if next == o.DeliveryStatus {
		return false, nil
	}
	o.DeliveryStatus = next
	return true, nil
}

func (s *MemoryStore) PaidMissingTokens(ctx context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, o := range s.OrdersByID {
		if o.Status != model.OrderStatusPaid {
			continue
		}
		products := make(map[string]struct{})
		for _, it := range s.ItemsByID[id] {
			products[it.ProductID] = struct{}{}
		}
		tokens := 0
		for _, t := range s.TokensByID {
			if t.OrderID == id {
				tokens++
			}
		}
		if len(products) > tokens {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// --- TokenRepository ---

func (s *MemoryStore) Insert(ctx context.Context, t model.DownloadToken) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.TokenErrs[t.ProductID]; err != nil {
		return false, err
	}
	for _, existing := range s.TokensByID {
		if existing.OrderID == t.OrderID && existing.ProductID == t.ProductID {
			return false, nil
		}
	}
	s.nextTokenID++
	t.ID = s.nextTokenID
	t.CreatedAt = time.Now()
	s.TokensByID[t.Token] = &t
	return true, nil
}

func (s *MemoryStore) ListByOrder(ctx context.Context, orderID string) ([]model.DownloadToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.DownloadToken
	for _, t := range s.TokensByID {
		if t.OrderID == orderID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) GetByToken(ctx context.Context, token string) (*model.DownloadToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.TokensByID[token]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *MemoryStore) Consume(ctx context.Context, token string, now time.Time) (*model.DownloadToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.TokensByID[token]
	if !ok || !t.Usable(now) {
		return nil, false, nil
	}
	t.DownloadCount++
	at := now
	t.LastDownloadedAt = &at
	copied := *t
	return &copied, true, nil
}

// --- ProductRepository ---

func (s *MemoryStore) File(ctx context.Context, productID string) (*model.ProductFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.Products[productID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

// --- SettingsRepository ---

func (s *MemoryStore) All(ctx context.Context) (map[string]string, error) {
	if s.SettingsErr != nil {
		return nil, s.SettingsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		result[k] = v
	}
	return result, nil
}

func sortNewestFirst(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
