package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/models"
)

// Storefront is the shopper-facing listing. Source and admin products keep
// separate id spaces and are returned as separate arrays.
type Storefront struct {
	SourceProducts []models.SourceProduct `json:"sourceProducts"`
	AdminProducts  []models.Product       `json:"adminProducts"`
	SourceError    string                 `json:"sourceError,omitempty"`
}

// Storefront lists both catalogs. A source failure is reported in
// SourceError and never hides the admin products; only a store failure is
// returned as an error.
func (m *Manager) Storefront(ctx context.Context) (Storefront, error) {
	admin, err := m.List(ctx)
	if err != nil {
		return Storefront{}, err
	}

	view := Storefront{
		SourceProducts: make([]models.SourceProduct, 0),
		AdminProducts:  admin,
	}
	if m.source == nil {
		return view, nil
	}

	products, err := m.source.List(ctx)
	if err != nil {
		m.log.Warn("[PRODUCT] catalog source unavailable", zap.Error(err))
		view.SourceError = err.Error()
		return view, nil
	}
	view.SourceProducts = products
	return view, nil
}

// SourceProduct fetches one product from the external catalog.
func (m *Manager) SourceProduct(ctx context.Context, id int64) (models.SourceProduct, error) {
	if m.source == nil {
		return models.SourceProduct{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return m.source.GetByID(ctx, id)
}

// Categories returns the source categories followed by any admin product
// category the source does not list.
func (m *Manager) Categories(ctx context.Context) ([]string, error) {
	admin, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0)
	if m.source != nil {
		fromSource, err := m.source.Categories(ctx)
		if err != nil {
			return nil, err
		}
		categories = append(categories, fromSource...)
	}

	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		seen[c] = struct{}{}
	}
	for _, p := range admin {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}
