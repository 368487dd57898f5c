package models

import (
	"encoding/json"
	"strings"
	"time"
)

// OrderItem is one cart line captured at checkout.
type OrderItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
}

// OrderCustomer captures the contact details entered at checkout.
type OrderCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type ShippingAddress struct {
	Street  string `json:"street,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Line returns the street line regardless of which field the checkout form used.
func (a ShippingAddress) Line() string {
	if a.Street != "" {
		return a.Street
	}
	return a.Address
}

// TrackingUpdate is an append-only lifecycle log entry. Status is free text
// ("Order Placed", "refunded") rather than an OrderStatus.
type TrackingUpdate struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderNote struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
}

// Order is one checkout transaction. OrderID is the canonical reference; the
// JSON form mirrors it as "id" so either field addresses the record.
type Order struct {
	OrderID         string           `json:"orderId"`
	Status          OrderStatus      `json:"status"`
	Customer        OrderCustomer    `json:"customer"`
	CustomerName    string           `json:"customerName,omitempty"`
	CustomerEmail   string           `json:"customerEmail,omitempty"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	Items           []OrderItem      `json:"items"`
	Total           Amount           `json:"total"`
	Date            string           `json:"date,omitempty"`
	Time            string           `json:"time,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       *time.Time       `json:"updatedAt,omitempty"`
	TrackingUpdates []TrackingUpdate `json:"trackingUpdates"`
	Notes           []OrderNote      `json:"notes,omitempty"`

	TrackingNumber string   `json:"trackingNumber,omitempty"`
	Carrier        string   `json:"carrier,omitempty"`
	Priority       Priority `json:"priority,omitempty"`

	Refunded     bool       `json:"refunded,omitempty"`
	RefundAmount *Amount    `json:"refundAmount,omitempty"`
	RefundReason string     `json:"refundReason,omitempty"`
	RefundDate   *time.Time `json:"refundDate,omitempty"`

	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`

	// legacyID keeps an "id" that differed from "orderId" in an old record so
	// references to it keep resolving.
	legacyID string
}

// Matches reports whether ref addresses this order through either identifier.
func (o *Order) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return ref == o.OrderID || (o.legacyID != "" && ref == o.legacyID)
}

// ID is the mirrored identifier written as "id".
func (o *Order) ID() string {
	if o.legacyID != "" {
		return o.legacyID
	}
	return o.OrderID
}

// Normalize derives the admin display fields from the nested customer.
func (o *Order) Normalize() {
	if o.CustomerName == "" {
		o.CustomerName = strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
	}
	if o.CustomerEmail == "" {
		o.CustomerEmail = o.Customer.Email
	}
	if o.Priority == "" {
		o.Priority = PriorityNormal
	}
}

// Touch records a mutation time.
func (o *Order) Touch(now time.Time) {
	o.UpdatedAt = &now
}

func (o *Order) AppendTracking(status, message string, now time.Time) {
	o.TrackingUpdates = append(o.TrackingUpdates, TrackingUpdate{
		Status:    status,
		Message:   message,
		Timestamp: now,
	})
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		ID string `json:"id"`
		alias
	}{
		ID:    o.ID(),
		alias: alias(o),
	})
}

// UnmarshalJSON accepts records written by either the checkout path (only
// "orderId") or older admin tooling (only "id", or both).
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	aux := struct {
		ID string `json:"id"`
		*alias
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case o.OrderID == "":
		o.OrderID = aux.ID
	case aux.ID != "" && aux.ID != o.OrderID:
		o.legacyID = aux.ID
	}

	o.Normalize()
	return nil
}
