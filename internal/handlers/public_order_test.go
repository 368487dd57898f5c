package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderAsGuest(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/orders", "", checkoutPayload("grace@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decodeBody[map[string]any](t, rec)
	orderID, _ := order["orderId"].(string)
	assert.True(t, strings.HasPrefix(orderID, "ORD-"), orderID)
	assert.Equal(t, orderID, order["id"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 21.0, order["total"])
	assert.Equal(t, "Grace Hopper", order["customerName"])
	assert.Equal(t, "grace@example.com", order["customerEmail"])

	updates, _ := order["trackingUpdates"].([]any)
	require.Len(t, updates, 1)

	rec = srv.do(t, http.MethodGet, "/orders/"+orderID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orderID, decodeBody[map[string]any](t, rec)["orderId"])
}

func TestCreateOrderKeepsSubmittedTotal(t *testing.T) {
	srv := newTestServer(t)

	payload := checkoutPayload("grace@example.com")
	payload["total"] = "25.00"
	payload["orderId"] = "ORD-1700000000000"

	rec := srv.do(t, http.MethodPost, "/orders", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decodeBody[map[string]any](t, rec)
	assert.Equal(t, 25.0, order["total"])
	assert.Equal(t, "ORD-1700000000000", order["orderId"])
}

func TestCreateOrderWithTakenOrderIDConflicts(t *testing.T) {
	srv := newTestServer(t)

	payload := checkoutPayload("grace@example.com")
	payload["orderId"] = "ORD-1700000000000"
	rec := srv.do(t, http.MethodPost, "/orders", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	payload = checkoutPayload("mallory@example.com")
	payload["orderId"] = "ORD-1700000000000"
	rec = srv.do(t, http.MethodPost, "/orders", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/admin/api/orders/ORD-1700000000000", srv.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[map[string]any](t, rec)["order"].(map[string]any)
	assert.Equal(t, "grace@example.com", order["customerEmail"])
}

func TestCreateOrderValidation(t *testing.T) {
	srv := newTestServer(t)

	payload := checkoutPayload("not-an-email")
	payload["customer"].(map[string]any)["firstName"] = ""
	delete(payload["shippingAddress"].(map[string]any), "address")

	rec := srv.do(t, http.MethodPost, "/orders", "", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Details, "firstName is required")
	assert.Contains(t, body.Details, "email must be a valid email")
	assert.Contains(t, body.Details, "address is required")
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	srv := newTestServer(t)

	payload := checkoutPayload("grace@example.com")
	payload["items"] = []any{}

	rec := srv.do(t, http.MethodPost, "/orders", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignedInCheckoutAppearsInUserOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/orders", srv.customerToken, checkoutPayload("typed@elsewhere.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ada@example.com", decodeBody[map[string]any](t, rec)["customerEmail"])

	rec = srv.do(t, http.MethodPost, "/orders", "", checkoutPayload("someone@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/user/orders", srv.customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "ada@example.com", list[0]["customerEmail"])
}

func TestUserOrdersRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/user/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrderHidesContactDetailsFromOthers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/orders", srv.customerToken, checkoutPayload("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	ref := decodeBody[map[string]any](t, rec)["orderId"].(string)

	rec = srv.do(t, http.MethodPost, "/auth/register", "", map[string]any{"name": "Eve", "email": "eve@example.com", "password": "secret-pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	eveToken := decodeBody[map[string]any](t, rec)["accessToken"].(string)

	for _, token := range []string{"", eveToken} {
		rec = srv.do(t, http.MethodGet, "/orders/"+ref, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[map[string]any](t, rec)
		assert.Equal(t, ref, view["orderId"])
		assert.Equal(t, "pending", view["status"])
		assert.NotNil(t, view["items"])
		for _, field := range []string{"customer", "customerName", "customerEmail", "shippingAddress", "notes"} {
			assert.NotContains(t, view, field)
		}
		assert.NotContains(t, rec.Body.String(), "555-0100")
		assert.NotContains(t, rec.Body.String(), "ada@example.com")
	}

	for _, token := range []string{srv.customerToken, srv.adminToken} {
		rec = srv.do(t, http.MethodGet, "/orders/"+ref, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "ada@example.com", view["customerEmail"])
		assert.Contains(t, view, "shippingAddress")
	}
}

func TestGetOrderNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/orders/ORD-0", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order not found", decodeBody[map[string]any](t, rec)["error"])
}
