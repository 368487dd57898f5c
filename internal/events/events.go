package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated     = "order.created"
	TypeStatusChanged    = "order.status_changed"
	TypeNoteAdded        = "order.note_added"
	TypeTrackingAssigned = "order.tracking_assigned"
	TypeOrderCancelled   = "order.cancelled"
	TypeOrderRefunded    = "order.refunded"
	TypePriorityChanged  = "order.priority_changed"
	TypeOrderDeleted     = "order.deleted"
)

// OrderEvent describes one lifecycle change of an order.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	Status        string    `json:"status,omitempty"`
	Message       string    `json:"message,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
	Close() error
}

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }
func (Nop) Close() error                              { return nil }
