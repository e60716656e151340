package analytics

import (
	"math"
	"time"

	"order-analytics/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	day = 24 * time.Hour

	predictionHorizonDays = 30
	onTimeAssumption      = 0.85
	// placeholderConfidence is reported for every non-empty prediction; nothing models it yet.
	placeholderConfidence = 0.75
)

// Baseline selects the number of days the prediction normalizes the supplied orders over.
type Baseline int

const (
	// BaselineAllTime treats the orders as the full 90-day dataset.
	BaselineAllTime Baseline = iota
	// BaselinePeriod treats the orders as one 30-day period, used for filtered views.
	BaselinePeriod
)

func (b Baseline) Days() int {
	if b == BaselinePeriod {
		return 30
	}
	return 90
}

// ComputeMetrics derives summary statistics from orders. It never mutates its input and works the
// same on the full collection or any filtered subset.
func ComputeMetrics(orders []domain.Order, now time.Time, baseline Baseline) domain.SummaryMetrics {
	metrics := domain.SummaryMetrics{
		TotalOrders:    len(orders),
		TotalRevenue:   decimal.Zero,
		OrdersByRegion: make(map[domain.Region]domain.RegionStats),
		OrdersByStatus: make(map[domain.OrderStatus]int),
	}

	delivered := 0
	for i := range orders {
		o := &orders[i]
		metrics.TotalRevenue = metrics.TotalRevenue.Add(o.OrderTotal)

		bucket, ok := metrics.OrdersByRegion[o.Region]
		if !ok {
			bucket = domain.RegionStats{Revenue: decimal.Zero}
		}
		bucket.Count++
		bucket.Revenue = bucket.Revenue.Add(o.OrderTotal)
		metrics.OrdersByRegion[o.Region] = bucket

		metrics.OrdersByStatus[o.Status]++

		if o.Status == domain.StatusDelivered {
			delivered++
		}
	}

	metrics.OnTimeDeliveryRate = onTimeRate(delivered)
	metrics.RecentTrends = domain.RecentTrends{
		Last7Days:  windowStats(orders, now.Add(-7*day)),
		Last30Days: windowStats(orders, now.Add(-30*day)),
	}
	metrics.NextPeriodPrediction = predict(len(orders), metrics.TotalRevenue, baseline)

	return metrics
}

// onTimeRate reports the share of delivered orders assumed on time. Without real delivery
// timestamps every delivered order counts at the fixed 85% assumption, so the result is 85
// whenever anything was delivered.
func onTimeRate(delivered int) int {
	if delivered == 0 {
		return 0
	}
	n := float64(delivered)
	return int(math.Round(n * onTimeAssumption / n * 100))
}

func windowStats(orders []domain.Order, since time.Time) domain.WindowStats {
	stats := domain.WindowStats{Revenue: decimal.Zero}
	for i := range orders {
		if orders[i].DateTime.Before(since) {
			continue
		}
		stats.Count++
		stats.Revenue = stats.Revenue.Add(orders[i].OrderTotal)
	}
	return stats
}

func predict(count int, revenue decimal.Decimal, baseline Baseline) domain.Prediction {
	if count == 0 {
		return domain.Prediction{PredictedRevenue: decimal.Zero}
	}

	window := baseline.Days()
	avgDaily := float64(count) / float64(window)
	predictedRevenue := revenue.
		Mul(decimal.NewFromInt(predictionHorizonDays)).
		Div(decimal.NewFromInt(int64(window))).
		Round(0)

	return domain.Prediction{
		PredictedOrders:  roundHalfUp(avgDaily * predictionHorizonDays),
		PredictedRevenue: predictedRevenue,
		Confidence:       placeholderConfidence,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
