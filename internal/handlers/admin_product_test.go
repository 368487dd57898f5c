package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminProductLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := createProduct(t, srv, map[string]any{
		"title":    "Lamp",
		"price":    "abc",
		"stock":    "7 units",
		"category": "home",
	})
	assert.Equal(t, 0.0, created["price"])
	assert.Equal(t, 7.0, created["stock"])
	path := fmt.Sprintf("/admin/api/products/%.0f", created["id"])

	rec := srv.do(t, http.MethodPut, path, srv.adminToken, map[string]any{"price": 12.5, "stock": "oops"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[map[string]any](t, rec)
	assert.Equal(t, 12.5, updated["price"])
	assert.Equal(t, 7.0, updated["stock"])
	assert.Equal(t, "Lamp", updated["title"])

	rec = srv.do(t, http.MethodGet, "/admin/api/products", srv.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = srv.do(t, http.MethodGet, "/admin/api/products/stats", srv.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[map[string]any](t, rec)
	assert.Equal(t, 1.0, stats["totalProducts"])
	assert.Equal(t, 7.0, stats["totalStock"])
	assert.Equal(t, 87.5, stats["totalValue"])
	assert.Equal(t, 1.0, stats["lowStockCount"])

	rec = srv.do(t, http.MethodDelete, path, srv.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, path, srv.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPut, path, srv.adminToken, map[string]any{"title": "Gone"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductRequiresTitle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/admin/api/products", srv.adminToken, map[string]any{"price": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	rec = srv.do(t, http.MethodPost, "/admin/api/products", srv.customerToken, map[string]any{"title": "Lamp"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
