package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

const lowStockThreshold = 10

// ProductInput is a new admin product as submitted by the dashboard form.
// Price and Stock are accepted as numbers or numeric strings.
type ProductInput struct {
	Title       string `json:"title" binding:"required"`
	Price       any    `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Stock       any    `json:"stock"`
}

// ProductPatch carries the fields to change. Nil fields are left untouched.
type ProductPatch struct {
	Title       *string `json:"title"`
	Price       any     `json:"price"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Stock       any     `json:"stock"`
}

type Stats struct {
	TotalProducts int           `json:"totalProducts"`
	TotalStock    int           `json:"totalStock"`
	TotalValue    models.Amount `json:"totalValue"`
	LowStockCount int           `json:"lowStockCount"`
}

// Manager owns the admin product collection and, when configured, fronts the
// external catalog source for storefront listings.
type Manager struct {
	mu       sync.Mutex
	products *store.Collection[models.Product]
	source   Source
	log      *zap.Logger
	now      func() time.Time
	lastID   int64
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithSource(src Source) Option {
	return func(m *Manager) { m.source = src }
}

func NewManager(s store.Store, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		products: store.NewCollection[models.Product](s, store.KeyProducts),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Add(ctx context.Context, input ProductInput) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.products.Items(ctx)
	if err != nil {
		return models.Product{}, err
	}

	now := m.now()
	price, _ := coercePrice(input.Price)
	stock, _ := coerceStock(input.Stock)

	product := models.Product{
		ID:          m.nextID(items, now),
		Title:       strings.TrimSpace(input.Title),
		Price:       price,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Image:       strings.TrimSpace(input.Image),
		Stock:       stock,
		CreatedAt:   now,
	}

	if err := m.products.Replace(ctx, append(items, product)); err != nil {
		return models.Product{}, err
	}

	m.log.Info("[PRODUCT] product added",
		zap.Int64("id", product.ID),
		zap.String("title", product.Title),
		zap.String("price", product.Price.Display()),
		zap.Int("stock", product.Stock),
	)
	return product, nil
}

// nextID returns a millisecond timestamp id, bumped past every id this
// manager or the stored collection has already used.
func (m *Manager) nextID(items []models.Product, now time.Time) int64 {
	id := now.UnixMilli()
	floor := m.lastID
	for _, p := range items {
		floor = max(floor, p.ID)
	}
	if id <= floor {
		id = floor + 1
	}
	m.lastID = id
	return id
}

// Update merges patch into the product. A supplied price or stock that does
// not parse keeps the previous value.
func (m *Manager) Update(ctx context.Context, id int64, patch ProductPatch) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.products.Items(ctx)
	if err != nil {
		return models.Product{}, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}

	product := items[idx]
	if patch.Title != nil {
		product.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Category != nil {
		product.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Image != nil {
		product.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Price != nil {
		if price, ok := coercePrice(patch.Price); ok {
			product.Price = price
		}
	}
	if patch.Stock != nil {
		if stock, ok := coerceStock(patch.Stock); ok {
			product.Stock = stock
		}
	}
	now := m.now()
	product.UpdatedAt = &now
	items[idx] = product

	if err := m.products.Replace(ctx, items); err != nil {
		return models.Product{}, err
	}

	m.log.Info("[PRODUCT] product updated", zap.Int64("id", id))
	return product, nil
}

func (m *Manager) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.products.Items(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}

	if err := m.products.Replace(ctx, append(items[:idx:idx], items[idx+1:]...)); err != nil {
		return err
	}

	m.log.Info("[PRODUCT] product removed", zap.Int64("id", id))
	return nil
}

func (m *Manager) GetByID(ctx context.Context, id int64) (models.Product, error) {
	items, err := m.List(ctx)
	if err != nil {
		return models.Product{}, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return items[idx], nil
}

func (m *Manager) List(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Items(ctx)
}

func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	items, err := m.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalProducts: len(items)}
	value := models.Amount{}
	for _, p := range items {
		stats.TotalStock += p.Stock
		value.Decimal = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock < lowStockThreshold {
			stats.LowStockCount++
		}
	}
	stats.TotalValue = value
	return stats, nil
}

func indexOf(items []models.Product, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
