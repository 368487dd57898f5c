package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	trackingOrderPlaced = "Order Placed"
	trackingRefunded    = "refunded"
	noteAuthorAdmin     = "Admin"
)

// Manager owns the orders collection. Both the checkout path and the admin
// path go through it, so any order is reachable by either of its references.
type Manager struct {
	mu     sync.Mutex
	orders *store.Collection[models.Order]
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) { m.events = p }
}

func NewManager(s store.Store, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		orders: store.NewCollection[models.Order](s, store.KeyOrders),
		events: events.Nop{},
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a new order placed at checkout. The input is trusted as the
// checkout form already validated it.
func (m *Manager) Create(ctx context.Context, order models.Order) (models.Order, error) {
	m.mu.Lock()

	items, err := m.orders.Items(ctx)
	if err != nil {
		m.mu.Unlock()
		return models.Order{}, err
	}

	now := m.now()
	order.OrderID = strings.TrimSpace(order.OrderID)
	if order.OrderID == "" {
		order.OrderID = nextOrderID(items, now)
	} else if indexOf(items, order.OrderID) >= 0 {
		m.mu.Unlock()
		return models.Order{}, fmt.Errorf("%w: %s", ErrDuplicateOrder, order.OrderID)
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = nil
	order.Normalize()
	order.TrackingUpdates = []models.TrackingUpdate{{
		Status:    trackingOrderPlaced,
		Message:   "Your order has been placed successfully",
		Timestamp: now,
	}}

	updated := make([]models.Order, 0, len(items)+1)
	updated = append(updated, order)
	updated = append(updated, items...)

	if err := m.orders.Replace(ctx, updated); err != nil {
		m.mu.Unlock()
		return models.Order{}, err
	}
	m.mu.Unlock()

	m.log.Info("[ORDER] order created",
		zap.String("orderId", order.OrderID),
		zap.String("customerEmail", order.CustomerEmail),
		zap.String("total", order.Total.Display()),
	)
	m.publish(ctx, events.TypeOrderCreated, order, trackingOrderPlaced)
	return order, nil
}

// nextOrderID returns "ORD-<epoch-millis>", bumped past any id already taken.
func nextOrderID(existing []models.Order, now time.Time) string {
	millis := now.UnixMilli()
	for {
		candidate := fmt.Sprintf("ORD-%d", millis)
		if indexOf(existing, candidate) < 0 {
			return candidate
		}
		millis++
	}
}

// UpdateStatus sets the status and appends one tracking update. It does not
// check CanTransition; repeated calls with the same status append one entry
// each.
func (m *Manager) UpdateStatus(ctx context.Context, ref string, status models.OrderStatus, message string) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		applyStatus(o, status, message, now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] status updated", zap.String("ref", ref), zap.String("status", string(status)))
	m.publish(ctx, events.TypeStatusChanged, order, lastTrackingMessage(order))
	return order, nil
}

// ChangeStatus is UpdateStatus guarded by CanTransition.
func (m *Manager) ChangeStatus(ctx context.Context, ref string, status models.OrderStatus, message string) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		if !CanTransition(o.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
		}
		applyStatus(o, status, message, now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] status changed", zap.String("ref", ref), zap.String("status", string(status)))
	m.publish(ctx, events.TypeStatusChanged, order, lastTrackingMessage(order))
	return order, nil
}

func applyStatus(o *models.Order, status models.OrderStatus, message string, now time.Time) {
	if strings.TrimSpace(message) == "" {
		message = "Order " + string(status)
	}
	o.Status = status
	o.AppendTracking(string(status), message, now)
	o.Touch(now)
}

func (m *Manager) AddNote(ctx context.Context, ref, text string) (models.Order, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Order{}, ErrEmptyNote
	}

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		o.Notes = append(o.Notes, models.OrderNote{
			Text:      text,
			Timestamp: now,
			Author:    noteAuthorAdmin,
		})
		o.Touch(now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] note added", zap.String("ref", ref))
	m.publish(ctx, events.TypeNoteAdded, order, text)
	return order, nil
}

func (m *Manager) AssignTracking(ctx context.Context, ref, trackingNumber, carrier string) (models.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return models.Order{}, ErrEmptyTrackingNumber
	}

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		o.TrackingNumber = trackingNumber
		o.Carrier = strings.TrimSpace(carrier)
		o.Touch(now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] tracking assigned",
		zap.String("ref", ref),
		zap.String("trackingNumber", trackingNumber),
		zap.String("carrier", order.Carrier),
	)
	m.publish(ctx, events.TypeTrackingAssigned, order, trackingNumber)
	return order, nil
}

func (m *Manager) Cancel(ctx context.Context, ref, reason string) (models.Order, error) {
	reason = strings.TrimSpace(reason)

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		shown := reason
		if shown == "" {
			shown = "No reason provided"
		}
		o.Status = models.StatusCancelled
		o.CancelledAt = &now
		o.CancellationReason = reason
		o.AppendTracking(string(models.StatusCancelled), "Order cancelled. Reason: "+shown, now)
		o.Touch(now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] order cancelled", zap.String("ref", ref), zap.String("reason", reason))
	m.publish(ctx, events.TypeOrderCancelled, order, lastTrackingMessage(order))
	return order, nil
}

// MarkRefunded records a refund. The status is left unchanged and the amount
// is not checked against the order total.
func (m *Manager) MarkRefunded(ctx context.Context, ref string, amount models.Amount, reason string) (models.Order, error) {
	reason = strings.TrimSpace(reason)

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		refund := amount
		o.Refunded = true
		o.RefundAmount = &refund
		o.RefundDate = &now
		o.RefundReason = reason
		o.AppendTracking(trackingRefunded, "Order refunded: $"+amount.Display(), now)
		o.Touch(now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	if amount.GreaterThan(order.Total.Decimal) {
		m.log.Warn("[ORDER] refund exceeds order total",
			zap.String("ref", ref),
			zap.String("refund", amount.Display()),
			zap.String("total", order.Total.Display()),
		)
	}
	m.log.Info("[ORDER] order refunded", zap.String("ref", ref), zap.String("amount", amount.Display()))
	m.publish(ctx, events.TypeOrderRefunded, order, lastTrackingMessage(order))
	return order, nil
}

func (m *Manager) SetPriority(ctx context.Context, ref string, priority models.Priority) (models.Order, error) {
	if !priority.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	order, err := m.mutate(ctx, ref, func(o *models.Order, now time.Time) error {
		o.Priority = priority
		o.Touch(now)
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	m.log.Info("[ORDER] priority updated", zap.String("ref", ref), zap.String("priority", string(priority)))
	m.publish(ctx, events.TypePriorityChanged, order, string(priority))
	return order, nil
}

// Delete removes the order permanently.
func (m *Manager) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()

	items, err := m.orders.Items(ctx)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	idx := indexOf(items, ref)
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOrderNotFound, ref)
	}
	deleted := items[idx]

	updated := append(items[:idx:idx], items[idx+1:]...)
	if err := m.orders.Replace(ctx, updated); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.log.Info("[ORDER] order deleted", zap.String("ref", ref))
	m.publish(ctx, events.TypeOrderDeleted, deleted, "")
	return nil
}

// mutate applies fn to the order addressed by ref and flushes the whole
// collection. Nothing is written when fn fails.
func (m *Manager) mutate(ctx context.Context, ref string, fn func(o *models.Order, now time.Time) error) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.orders.Items(ctx)
	if err != nil {
		return models.Order{}, err
	}

	idx := indexOf(items, ref)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, ref)
	}

	order := items[idx]
	if err := fn(&order, m.now()); err != nil {
		return models.Order{}, err
	}
	items[idx] = order

	if err := m.orders.Replace(ctx, items); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (m *Manager) publish(ctx context.Context, eventType string, order models.Order, message string) {
	e := events.OrderEvent{
		Type:          eventType,
		OrderID:       order.OrderID,
		Status:        string(order.Status),
		Message:       message,
		CustomerEmail: order.CustomerEmail,
		OccurredAt:    m.now(),
	}
	if err := m.events.Publish(ctx, e); err != nil {
		m.log.Warn("[ORDER] event publish failed",
			zap.String("type", eventType),
			zap.String("orderId", order.OrderID),
			zap.Error(err),
		)
	}
}

func indexOf(items []models.Order, ref string) int {
	for i := range items {
		if items[i].Matches(ref) {
			return i
		}
	}
	return -1
}

func lastTrackingMessage(o models.Order) string {
	if len(o.TrackingUpdates) == 0 {
		return ""
	}
	return o.TrackingUpdates[len(o.TrackingUpdates)-1].Message
}
