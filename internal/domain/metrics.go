package domain

import "github.com/shopspring/decimal"

// SummaryMetrics aggregates an order collection snapshot. It is derived on demand and never stored
// as a source of truth.
type SummaryMetrics struct {
	TotalOrders          int                    `json:"totalOrders"`
	TotalRevenue         decimal.Decimal        `json:"totalRevenue"`
	OnTimeDeliveryRate   int                    `json:"onTimeDeliveryRate"`
	OrdersByRegion       map[Region]RegionStats `json:"ordersByRegion"`
	OrdersByStatus       map[OrderStatus]int    `json:"ordersByStatus"`
	RecentTrends         RecentTrends           `json:"recentTrends"`
	NextPeriodPrediction Prediction             `json:"nextPeriodPrediction"`
}

type RegionStats struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type WindowStats struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type RecentTrends struct {
	Last7Days  WindowStats `json:"last7Days"`
	Last30Days WindowStats `json:"last30Days"`
}

type Prediction struct {
	PredictedOrders  int             `json:"predictedOrders"`
	PredictedRevenue decimal.Decimal `json:"predictedRevenue"`
	// Confidence is a fixed placeholder, not a modelled value.
	Confidence float64 `json:"confidence"`
}
