package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/catalog"
	"storefront/internal/identity"
	"storefront/internal/orders"
	"storefront/internal/reviews"
	"storefront/internal/store"
)

type testServer struct {
	router        *gin.Engine
	customerToken string
	adminToken    string
}

func newTestServer(t *testing.T, catalogOpts ...catalog.Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	s := store.NewMemoryStore()
	log := zap.NewNop()

	provider := identity.NewLocalProvider(s, "test-secret", time.Hour, log,
		identity.WithBcryptCost(bcrypt.MinCost))
	customer, err := provider.Register(ctx, identity.RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret-pw",
	})
	require.NoError(t, err)
	require.NoError(t, provider.EnsureAdmin(ctx, "admin@example.com", "admin-pw"))
	admin, err := provider.Login(ctx, "admin@example.com", "admin-pw")
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, Deps{
		Orders:   orders.NewManager(s, log),
		Catalog:  catalog.NewManager(s, log, catalogOpts...),
		Reviews:  reviews.NewAggregator(s, log),
		Identity: provider,
		Log:      log,
	})

	return &testServer{
		router:        r,
		customerToken: customer.AccessToken,
		adminToken:    admin.AccessToken,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func checkoutPayload(email string) map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"firstName": "Grace",
			"lastName":  "Hopper",
			"email":     email,
			"phone":     "555-0100",
		},
		"shippingAddress": map[string]any{
			"address": "1 Main St",
			"city":    "Arlington",
			"state":   "VA",
			"zipCode": "22201",
			"country": "US",
		},
		"items": []map[string]any{
			{"id": 3, "title": "Jacket", "price": 10.5, "quantity": 2, "image": "jacket.png"},
		},
		"date": "1/2/2025",
		"time": "10:00:00 AM",
	}
}
