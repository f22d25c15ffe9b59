package order

import "laundry-service/internal/models"

// allowedTransitions is the pickup-to-delivery lifecycle. Delivered and
// cancelled are terminal and have no entry.
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusPicked, models.OrderStatusCancelled},
	models.OrderStatusPicked:     {models.OrderStatusProcessing},
	models.OrderStatusProcessing: {models.OrderStatusReady},
	models.OrderStatusReady:      {models.OrderStatusDelivering},
	models.OrderStatusDelivering: {models.OrderStatusDelivered},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func IsTerminal(status string) bool {
	_, ok := allowedTransitions[status]
	return !ok
}

// defaultQueue is what the staff dashboard shows when no status filter is given:
// orders waiting for pickup and orders waiting for delivery.
var defaultQueue = []string{models.OrderStatusPending, models.OrderStatusReady}
