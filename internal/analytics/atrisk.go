package analytics

import (
	"math"
	"time"

	"order-analytics/internal/domain"
)

// FindAtRisk returns the in-transit orders whose delivery ETA has already passed, preserving the
// input order.
func FindAtRisk(orders []domain.Order, now time.Time) []domain.Order {
	out := make([]domain.Order, 0)
	for i := range orders {
		if IsAtRisk(orders[i], now) {
			out = append(out, orders[i].Clone())
		}
	}
	return out
}

func IsAtRisk(o domain.Order, now time.Time) bool {
	return o.Status.InTransit() && o.DeliveryETA.Before(now)
}

// DaysOverdue is the number of started days since the ETA. Orders that are not yet due give zero
// or a negative count.
func DaysOverdue(o domain.Order, now time.Time) int {
	return int(math.Ceil(float64(now.Sub(o.DeliveryETA)) / float64(day)))
}
