package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

const orderColumns = `id, number, customer_email, customer_phone, customer_name, total_minor, currency,
                      status, delivery_status, gateway_order_id, gateway_payment_id, gateway_signature,
                      whatsapp_optin, notification_attempts, provider_message_id, created_at, updated_at, paid_at`

// deliveryRank mirrors model.DeliveryStatus.Rank for the stored column.
const deliveryRank = `CASE delivery_status WHEN 'pending' THEN 0 WHEN 'sent' THEN 1
                      WHEN 'delivered' THEN 2 WHEN 'read' THEN 3 ELSE -1 END`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerName, &o.TotalMinor, &o.Currency,
		&o.Status, &o.DeliveryStatus, &o.GatewayOrderID, &o.GatewayPaymentID, &o.GatewaySignature,
		&o.WhatsAppOptIn, &o.NotificationAttempts, &o.ProviderMessageID, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// formatOrderNumber renders a sequence value as a shareable order number.
func formatOrderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("DG-%s-%06d", at.UTC().Format("20060102"), seq)
}

func (r *orderRepository) Create(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	const (
		nextNumber  = `SELECT nextval('order_number_seq')`
		insertOrder = `INSERT INTO orders (id, number, customer_email, customer_phone, customer_name,
                                           total_minor, currency, status, delivery_status, whatsapp_optin)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                       RETURNING created_at, updated_at`
		insertItem = `INSERT INTO order_items (order_id, product_id, product_name, price_minor, quantity)
                      VALUES ($1, $2, $3, $4, $5) RETURNING id`
	)

	order := &model.Order{
		ID:             in.ID,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		CustomerName:   in.CustomerName,
		TotalMinor:     in.Total(),
		Currency:       in.Currency,
		Status:         model.OrderStatusPending,
		DeliveryStatus: model.DeliveryStatusPending,
		WhatsAppOptIn:  in.WhatsAppOptIn,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var seq int64
		if err := tx.QueryRow(ctx, nextNumber).Scan(&seq); err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		order.Number = formatOrderNumber(time.Now(), seq)

		err := tx.QueryRow(ctx, insertOrder, order.ID, order.Number, order.CustomerEmail, order.CustomerPhone,
			order.CustomerName, order.TotalMinor, order.Currency, order.Status, order.DeliveryStatus, order.WhatsAppOptIn,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range in.Items {
			item := &in.Items[i]
			item.OrderID = order.ID
			if item.Quantity <= 0 {
				item.Quantity = 1
			}
			if err := tx.QueryRow(ctx, insertItem, order.ID, item.ProductID, item.ProductName, item.PriceMinor, item.Quantity).Scan(&item.ID); err != nil {
				return fmt.Errorf("insert order item %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, product_name, price_minor, quantity
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.PriceMinor, &it.Quantity); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	const query = `UPDATE orders SET gateway_order_id=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, gatewayOrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, orderID string) error {
	const query = `UPDATE orders SET status='failed', updated_at=NOW() WHERE id=$1 AND status='pending'`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

func (r *orderRepository) MarkPaid(ctx context.Context, c model.PaymentConfirmation) (bool, error) {
	const query = `UPDATE orders
                   SET status='paid', gateway_payment_id=$2, gateway_signature=$3,
                       gateway_order_id=COALESCE(NULLIF(gateway_order_id, ''), $4),
                       delivery_status='pending', paid_at=NOW(), updated_at=NOW()
                   WHERE id=$1 AND status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, c.OrderID, c.PaymentID, c.Signature, c.GatewayOrderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) RecordNotification(ctx context.Context, orderID, messageID string, sent bool) error {
	const (
		sentQuery = `UPDATE orders
                     SET notification_attempts=notification_attempts+1, provider_message_id=$2,
                         delivery_status=CASE WHEN delivery_status='pending' THEN 'sent' ELSE delivery_status END,
                         updated_at=NOW()
                     WHERE id=$1`
		failedQuery = `UPDATE orders SET notification_attempts=notification_attempts+1, updated_at=NOW() WHERE id=$1`
	)

	var (
		tag pgconn.CommandTag
		err error
	)
	if sent {
		tag, err = r.storage.pool.Exec(ctx, sentQuery, orderID, messageID)
	} else {
		tag, err = r.storage.pool.Exec(ctx, failedQuery, orderID)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) FindByProviderMessageID(ctx context.Context, messageID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider_message_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) FindPaidByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status='paid' AND right(regexp_replace(customer_phone, '\D', '', 'g'), 10)=$1
              ORDER BY created_at DESC
              LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, suffix, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) AdvanceDeliveryStatus(ctx context.Context, orderID string, status model.DeliveryStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown delivery status %q", domainErrors.ErrValidation, status)
	}
	query := `UPDATE orders SET delivery_status=$2, updated_at=NOW()
              WHERE id=$1 AND delivery_status <> 'failed'
                AND ($2 = 'failed' OR ` + deliveryRank + ` < $3)`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, string(status), status.Rank())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepository) PaidMissingTokens(ctx context.Context, limit int) ([]string, error) {
	const query = `SELECT o.id FROM orders o
                   WHERE o.status='paid'
                     AND (SELECT count(DISTINCT i.product_id) FROM order_items i WHERE i.order_id=o.id)
                       > (SELECT count(*) FROM download_tokens t WHERE t.order_id=o.id)
                   ORDER BY o.paid_at
                   LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
