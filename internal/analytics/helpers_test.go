package analytics

import (
	"time"

	"order-analytics/internal/domain"

	"github.com/shopspring/decimal"
)

var refNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newOrder(id string, region domain.Region, status domain.OrderStatus, total int64, placed time.Time) domain.Order {
	return domain.Order{
		ID:               id,
		DateTime:         placed,
		Region:           region,
		Currency:         region.Currency(),
		Status:           status,
		OrderTotal:       decimal.NewFromInt(total),
		Quantity:         1,
		DeliveryETA:      placed.Add(10 * day),
		LastStatusUpdate: placed,
	}
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
