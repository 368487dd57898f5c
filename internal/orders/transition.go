package orders

import "storefront/internal/models"

// CanTransition reports whether an order in current may move to target.
// Progression is forward-only along models.StatusWorkflow, cancellation is
// always reachable, and a cancelled order may be reopened into any status.
// An empty current status counts as pending; an unrecognized one does not
// block any valid target.
func CanTransition(current, target models.OrderStatus) bool {
	if !target.Valid() {
		return false
	}
	if target == models.StatusCancelled || current == models.StatusCancelled {
		return true
	}
	if current == "" {
		current = models.StatusPending
	}
	return target.Ordinal() >= current.Ordinal()
}

// AllowedTransitions lists the targets CanTransition accepts from current,
// excluding current itself, in workflow order.
func AllowedTransitions(current models.OrderStatus) []models.OrderStatus {
	allowed := make([]models.OrderStatus, 0, len(models.StatusWorkflow))
	for _, target := range models.StatusWorkflow {
		if target != current && CanTransition(current, target) {
			allowed = append(allowed, target)
		}
	}
	return allowed
}
