package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/store"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock())}, opts...)
	return NewManager(store.NewMemoryStore(), zap.NewNop(), opts...)
}

func strPtr(s string) *string { return &s }

func TestAddCoercesLooseNumbers(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	cases := []struct {
		name      string
		price     any
		stock     any
		wantPrice string
		wantStock int
	}{
		{"numbers", 19.99, 5.0, "19.99", 5},
		{"strings", "19.99", "12", "19.99", 12},
		{"garbage", "abc", "many", "0", 0},
		{"missing", nil, nil, "0", 0},
		{"negative", -4.0, "-3", "0", 0},
		{"fractional stock", "7.5", "7.9", "7.5", 7},
		{"trailing text", "12.50 USD", "3 units", "12.5", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := m.Add(ctx, ProductInput{Title: tc.name, Price: tc.price, Stock: tc.stock})
			require.NoError(t, err)
			assert.Equal(t, tc.wantPrice, p.Price.String())
			assert.Equal(t, tc.wantStock, p.Stock)
		})
	}
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	first, err := m.Add(ctx, ProductInput{Title: "Lamp"})
	require.NoError(t, err)
	second, err := m.Add(ctx, ProductInput{Title: "Desk"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), first.CreatedAt)

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Lamp", all[0].Title, "products are appended")
}

func TestUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	p, err := m.Add(ctx, ProductInput{Title: "Lamp", Price: 20.0, Stock: 4.0, Category: "home"})
	require.NoError(t, err)

	updated, err := m.Update(ctx, p.ID, ProductPatch{Title: strPtr("Desk Lamp"), Price: "not a price"})
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", updated.Title)
	assert.Equal(t, "20", updated.Price.String(), "unparsable price keeps the previous one")
	assert.Equal(t, 4, updated.Stock, "absent stock is untouched")
	assert.Equal(t, "home", updated.Category)
	require.NotNil(t, updated.UpdatedAt)

	updated, err = m.Update(ctx, p.ID, ProductPatch{Stock: 0.0, Price: "35.5"})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock, "an explicit zero is applied")
	assert.Equal(t, "35.5", updated.Price.String())

	found, err := m.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Title, found.Title)
}

func TestMissingProductErrors(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Update(ctx, 42, ProductPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, m.Remove(ctx, 42), ErrProductNotFound)
	_, err = m.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	lamp, err := m.Add(ctx, ProductInput{Title: "Lamp"})
	require.NoError(t, err)
	desk, err := m.Add(ctx, ProductInput{Title: "Desk"})
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, lamp.ID))

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, desk.ID, all[0].ID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}.TotalProducts, stats.TotalProducts)
	assert.True(t, stats.TotalValue.IsZero())

	_, err = m.Add(ctx, ProductInput{Title: "Lamp", Price: "10.50", Stock: 2.0})
	require.NoError(t, err)
	_, err = m.Add(ctx, ProductInput{Title: "Desk", Price: 100.0, Stock: "15"})
	require.NoError(t, err)
	_, err = m.Add(ctx, ProductInput{Title: "Chair", Price: 40.0})
	require.NoError(t, err)

	stats, err = m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 17, stats.TotalStock)
	assert.Equal(t, "1521", stats.TotalValue.String())
	assert.Equal(t, 2, stats.LowStockCount)
}

func TestLeadingNumber(t *testing.T) {
	assert.Equal(t, "12.50", leadingNumber(" 12.50 USD", true))
	assert.Equal(t, "12", leadingNumber("12.50", false))
	assert.Equal(t, "-3", leadingNumber("-3 left", false))
	assert.Equal(t, "", leadingNumber("abc", true))
	assert.Equal(t, "1.2", leadingNumber("1.2.3", true))
}
