package orders

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"
)

type ListFilter struct {
	Status models.OrderStatus
	Search string
	Page   int
	Limit  int
}

// StatusColumn groups the orders currently in one status.
type StatusColumn struct {
	Status models.OrderStatus `json:"status"`
	Orders []models.Order     `json:"orders"`
}

type Stats struct {
	Total        int           `json:"total"`
	Pending      int           `json:"pending"`
	Processing   int           `json:"processing"`
	ReadyToShip  int           `json:"readyToShip"`
	Shipped      int           `json:"shipped"`
	Delivered    int           `json:"delivered"`
	Cancelled    int           `json:"cancelled"`
	TotalRevenue models.Amount `json:"totalRevenue"`
}

func (m *Manager) snapshot(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders.Items(ctx)
}

func (m *Manager) All(ctx context.Context) ([]models.Order, error) {
	return m.snapshot(ctx)
}

func (m *Manager) FindByRef(ctx context.Context, ref string) (models.Order, error) {
	items, err := m.snapshot(ctx)
	if err != nil {
		return models.Order{}, err
	}
	idx := indexOf(items, ref)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, ref)
	}
	return items[idx], nil
}

// FindByUser returns the orders placed with email, most recent first. The
// comparison ignores case.
func (m *Manager) FindByUser(ctx context.Context, email string) ([]models.Order, error) {
	items, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	out := make([]models.Order, 0)
	if email == "" {
		return out, nil
	}
	for _, o := range items {
		if strings.EqualFold(strings.TrimSpace(o.Customer.Email), email) {
			out = append(out, o)
		}
	}
	return out, nil
}

// List filters by status and a case-insensitive search over the order id,
// customer email and customer name, then pages the result. A zero Limit
// returns every match.
func (m *Manager) List(ctx context.Context, f ListFilter) ([]models.Order, int, error) {
	items, err := m.snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]models.Order, 0, len(items))
	for _, o := range items {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		matched = append(matched, o)
	}

	total := len(matched)
	if f.Limit <= 0 {
		return matched, total, nil
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * f.Limit
	if start >= total {
		return []models.Order{}, total, nil
	}
	end := min(start+f.Limit, total)
	return matched[start:end], total, nil
}

func matchesSearch(o models.Order, search string) bool {
	return strings.Contains(strings.ToLower(o.ID()), search) ||
		strings.Contains(strings.ToLower(o.OrderID), search) ||
		strings.Contains(strings.ToLower(o.CustomerEmail), search) ||
		strings.Contains(strings.ToLower(o.CustomerName), search)
}

// Board groups orders by status in workflow order. Orders with an
// unrecognized status are left out.
func (m *Manager) Board(ctx context.Context) ([]StatusColumn, error) {
	items, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]StatusColumn, len(models.StatusWorkflow))
	for i, status := range models.StatusWorkflow {
		columns[i] = StatusColumn{Status: status, Orders: make([]models.Order, 0)}
	}
	for _, o := range items {
		status := o.Status
		if status == "" {
			status = models.StatusPending
		}
		if idx := status.Ordinal(); idx >= 0 {
			columns[idx].Orders = append(columns[idx].Orders, o)
		}
	}
	return columns, nil
}

// Stats counts orders per status and sums their totals. Totals that were
// stored unparsable count as zero.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	items, err := m.snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(items)}
	revenue := models.Amount{}
	for _, o := range items {
		switch o.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusReadyToShip:
			stats.ReadyToShip++
		case models.StatusShipped:
			stats.Shipped++
		case models.StatusDelivered:
			stats.Delivered++
		case models.StatusCancelled:
			stats.Cancelled++
		}
		revenue.Decimal = revenue.Add(o.Total.Decimal)
	}
	stats.TotalRevenue = revenue
	return stats, nil
}
