package services

import (
	"time"

	"order-analytics/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TestOrderID   = "KL-US-TEST0001"
	TestUKOrderID = "KL-UK-TEST0002"
)

var TestNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func CreateMockOrder(id string, region domain.Region, status domain.OrderStatus, total int64, placed time.Time) domain.Order {
	return domain.Order{
		ID:                   id,
		DateTime:             placed,
		Region:               region,
		Currency:             region.Currency(),
		ProductSKU:           "KL-SOFA-001",
		ProductName:          "Test Sofa",
		ProductCategory:      domain.CategorySofa,
		Quantity:             1,
		OrderTotal:           decimal.NewFromInt(total),
		Status:               status,
		PaymentMethod:        domain.PaymentCreditCard,
		DeliveryOption:       domain.DeliveryStandard,
		DeliveryETA:          placed.Add(10 * 24 * time.Hour),
		LastStatusUpdate:     placed,
		ProductConfiguration: map[string]any{"color": "Grey"},
	}
}

func CreateMockDataset() []domain.Order {
	daysAgo := func(n int) time.Time { return TestNow.Add(-time.Duration(n) * 24 * time.Hour) }
	return []domain.Order{
		CreateMockOrder(TestOrderID, domain.RegionUS, domain.StatusShipped, 1000, daysAgo(40)),
		CreateMockOrder(TestUKOrderID, domain.RegionUK, domain.StatusDelivered, 2000, daysAgo(3)),
		CreateMockOrder("KL-APAC-TEST0003", domain.RegionAPAC, domain.StatusPending, 500, daysAgo(1)),
		CreateMockOrder("KL-US-TEST0004", domain.RegionUS, domain.StatusOutForDelivery, 750, daysAgo(5)),
	}
}
