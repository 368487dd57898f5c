package models

import (
	"encoding/json"
	"strings"
)

type OrderStatus string

const (
	StatusPending     OrderStatus = "pending"
	StatusProcessing  OrderStatus = "processing"
	StatusReadyToShip OrderStatus = "ready_to_ship"
	StatusShipped     OrderStatus = "shipped"
	StatusDelivered   OrderStatus = "delivered"
	StatusCancelled   OrderStatus = "cancelled"
)

// StatusWorkflow is the fixed progression order. Cancelled is last but is
// reachable from every state.
var StatusWorkflow = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusReadyToShip,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus normalizes the spellings found in stored orders
// ("Pending", "Ready to Ship", "ready-to-ship") to the canonical value.
func ParseOrderStatus(raw string) OrderStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	return OrderStatus(normalized)
}

// Ordinal returns the position in StatusWorkflow, or -1 for unknown values.
func (s OrderStatus) Ordinal() int {
	for i, status := range StatusWorkflow {
		if status == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Ordinal() >= 0
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseOrderStatus(raw)
	return nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

func ParsePriority(raw string) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(raw)))
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	default:
		return false
	}
}
