package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	assert.Equal(t, StatusPending, ParseOrderStatus("Pending"))
	assert.Equal(t, StatusReadyToShip, ParseOrderStatus("Ready to Ship"))
	assert.Equal(t, StatusReadyToShip, ParseOrderStatus("ready-to-ship"))
	assert.Equal(t, StatusShipped, ParseOrderStatus(" SHIPPED "))
	assert.False(t, ParseOrderStatus("lost").Valid())
	assert.Equal(t, -1, OrderStatus("lost").Ordinal())
	assert.Equal(t, 5, StatusCancelled.Ordinal())
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority(" High "))
	assert.True(t, PriorityLow.Valid())
	assert.False(t, ParsePriority("urgent").Valid())
}

func TestOrderDecodeCheckoutShape(t *testing.T) {
	raw := `{
		"orderId": "ORD-1700000000000",
		"status": "Pending",
		"customer": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
		"shippingAddress": {"address": "1 Main St", "city": "Springfield", "zipCode": "12345", "country": "US"},
		"items": [{"id": 3, "title": "Jacket", "price": 55.99, "quantity": 2}],
		"total": "111.98",
		"date": "11/14/2023",
		"createdAt": "2023-11-14T22:13:20.000Z"
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))

	assert.Equal(t, "ORD-1700000000000", o.OrderID)
	assert.Equal(t, "ORD-1700000000000", o.ID())
	assert.True(t, o.Matches("ORD-1700000000000"))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "Ada Lovelace", o.CustomerName)
	assert.Equal(t, "ada@example.com", o.CustomerEmail)
	assert.Equal(t, PriorityNormal, o.Priority)
	assert.Equal(t, "1 Main St", o.ShippingAddress.Line())
	assert.Equal(t, "111.98", o.Total.String())
	assert.Equal(t, "55.99", o.Items[0].Price.String())
	assert.True(t, o.CreatedAt.Equal(time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)))
}

func TestOrderDecodeAdminOnlyID(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"ORD-5","status":"shipped","total":null}`), &o))

	assert.Equal(t, "ORD-5", o.OrderID)
	assert.True(t, o.Matches("ORD-5"))
	assert.True(t, o.Total.IsZero())
}

func TestOrderDecodeDistinctIDs(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"A-1","orderId":"ORD-1"}`), &o))

	assert.True(t, o.Matches("A-1"))
	assert.True(t, o.Matches("ORD-1"))
	assert.False(t, o.Matches(""))
	assert.False(t, o.Matches("ORD-2"))

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "A-1", decoded["id"])
	assert.Equal(t, "ORD-1", decoded["orderId"])
}

func TestOrderEncodeMirrorsID(t *testing.T) {
	o := Order{OrderID: "ORD-42", Status: StatusPending, Total: NewAmount(10)}
	data, err := json.Marshal(o)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ORD-42", decoded["id"])
	assert.Equal(t, "ORD-42", decoded["orderId"])
	assert.Equal(t, "pending", decoded["status"])
	assert.EqualValues(t, 10, decoded["total"])
}

func TestOrderNormalizeKeepsExistingFields(t *testing.T) {
	o := Order{
		Customer:      OrderCustomer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		CustomerName:  "Countess of Lovelace",
		CustomerEmail: "countess@example.com",
		Priority:      PriorityHigh,
	}
	o.Normalize()

	assert.Equal(t, "Countess of Lovelace", o.CustomerName)
	assert.Equal(t, "countess@example.com", o.CustomerEmail)
	assert.Equal(t, PriorityHigh, o.Priority)
}
