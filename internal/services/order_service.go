package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/domain"
	"order-analytics/internal/infra"
	rabbit "order-analytics/internal/infra/rabbitmq"
	"order-analytics/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatusChangedPattern = "order.status_changed"

	globalMetricsCacheKey    = "global"
	filteredMetricsKeyPrefix = "filtered:"
)

var (
	ErrOrderNotFound        = repository.ErrOrderNotFound
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrJournalNotConfigured = errors.New("status journal not configured")
)

// AtRiskOrder is an overdue in-transit order together with how late it is.
type AtRiskOrder struct {
	domain.Order
	DaysOverdue int `json:"daysOverdue"`
}

// FilteredSummary is the metrics view of one filter selection.
type FilteredSummary struct {
	Filters       analytics.FilterState `json:"filters"`
	Window        *analytics.DateWindow `json:"window,omitempty"`
	MatchedOrders int                   `json:"matchedOrders"`
	Metrics       domain.SummaryMetrics `json:"metrics"`
}

type OrderService struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface
	cache     infra.MetricsCacheInterface
	journal   repository.StatusJournal
	clock     domain.Clock
	logger    *zap.Logger
	flight    singleflight.Group

	// version counts status updates. It scopes in-flight computations so none started before an
	// update is shared with a caller arriving after it.
	version atomic.Uint64
}

// cacheTicket pins a cache write to the generation its lookup ran against.
type cacheTicket struct {
	gen   int64
	valid bool
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface, clock domain.Clock, logger *zap.Logger) *OrderService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      r,
		publisher: pub,
		clock:     clock,
		logger:    logger,
	}
}

func (u *OrderService) SetMetricsCache(cache infra.MetricsCacheInterface) {
	u.cache = cache
}

func (u *OrderService) SetStatusJournal(journal repository.StatusJournal) {
	u.journal = journal
}

func (u *OrderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return u.repo.FindAll(ctx)
}

func (u *OrderService) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *OrderService) GetOrdersByRegion(ctx context.Context, region domain.Region) ([]domain.Order, error) {
	if !region.Valid() {
		return nil, &analytics.FilterError{Field: "region", Value: string(region)}
	}
	return u.repo.FindByRegion(ctx, region)
}

func (u *OrderService) GetOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.Valid() {
		return nil, &analytics.FilterError{Field: "status", Value: string(status)}
	}
	return u.repo.FindByStatus(ctx, status)
}

// GetSummaryMetrics summarizes the full collection against the all-time baseline.
func (u *OrderService) GetSummaryMetrics(ctx context.Context) (domain.SummaryMetrics, error) {
	var cached domain.SummaryMetrics
	ticket, hit := u.cacheGet(ctx, globalMetricsCacheKey, &cached)
	if hit {
		return cached, nil
	}

	v, err, _ := u.flight.Do(u.flightKey(globalMetricsCacheKey), func() (any, error) {
		orders, err := u.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		m := analytics.ComputeMetrics(orders, u.clock.Now(), analytics.BaselineAllTime)
		u.cacheSet(ctx, ticket, globalMetricsCacheKey, m)
		return m, nil
	})
	if err != nil {
		return domain.SummaryMetrics{}, err
	}
	return v.(domain.SummaryMetrics), nil
}

// GetFilteredSummaryMetrics summarizes an already filtered subset against the period baseline.
func (u *OrderService) GetFilteredSummaryMetrics(_ context.Context, orders []domain.Order) domain.SummaryMetrics {
	return analytics.ComputeMetrics(orders, u.clock.Now(), analytics.BaselinePeriod)
}

// SummarizeFiltered narrows the collection with filters and window, then summarizes the result.
func (u *OrderService) SummarizeFiltered(ctx context.Context, filters analytics.FilterState, window *analytics.DateWindow) (FilteredSummary, error) {
	if err := filters.Validate(); err != nil {
		return FilteredSummary{}, err
	}

	key := filteredMetricsKey(filters, window)

	var cached FilteredSummary
	ticket, hit := u.cacheGet(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	v, err, _ := u.flight.Do(u.flightKey(key), func() (any, error) {
		now := u.clock.Now()
		orders, err := u.filterAll(ctx, filters, window, now)
		if err != nil {
			return nil, err
		}
		summary := FilteredSummary{
			Filters:       filters,
			Window:        window,
			MatchedOrders: len(orders),
			Metrics:       analytics.ComputeMetrics(orders, now, analytics.BaselinePeriod),
		}
		u.cacheSet(ctx, ticket, key, summary)
		return summary, nil
	})
	if err != nil {
		return FilteredSummary{}, err
	}
	return v.(FilteredSummary), nil
}

// FilterOrders applies filters and window to the full collection.
func (u *OrderService) FilterOrders(ctx context.Context, filters analytics.FilterState, window *analytics.DateWindow) ([]domain.Order, error) {
	return u.filterAll(ctx, filters, window, u.clock.Now())
}

// ApplyFilters narrows a caller-supplied collection.
func (u *OrderService) ApplyFilters(_ context.Context, orders []domain.Order, filters analytics.FilterState, window *analytics.DateWindow) ([]domain.Order, error) {
	return analytics.ApplyFilters(orders, filters, window, u.clock.Now())
}

// GetAtRiskOrders lists overdue in-transit orders as of now, or the current time when now is nil.
func (u *OrderService) GetAtRiskOrders(ctx context.Context, now *time.Time) ([]AtRiskOrder, error) {
	at := u.clock.Now()
	if now != nil {
		at = *now
	}

	orders, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	risky := analytics.FindAtRisk(orders, at)
	out := make([]AtRiskOrder, 0, len(risky))
	for _, o := range risky {
		out = append(out, AtRiskOrder{Order: o, DaysOverdue: analytics.DaysOverdue(o, at)})
	}
	return out, nil
}

// UpdateOrderStatus moves an order to status. Any known status may follow any other. Cache
// invalidation, journaling and event publication are best effort and never fail the update.
func (u *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := u.clock.Now()
	before, after, err := u.repo.UpdateStatus(ctx, id, status, now)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, fmt.Errorf("update status of %s: %w", id, err)
		}
		return nil, err
	}
	u.version.Add(1)

	u.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
	)

	if u.cache != nil {
		if err := u.cache.Invalidate(ctx); err != nil {
			u.logger.Warn("metrics cache invalidation failed", zap.Error(err))
		}
	}

	if u.journal != nil {
		change := domain.StatusChange{
			OrderID:    id,
			FromStatus: before.Status,
			ToStatus:   after.Status,
			ChangedAt:  after.LastStatusUpdate,
		}
		if err := u.journal.Record(ctx, change); err != nil {
			u.logger.Warn("status journal write failed", zap.String("order_id", id), zap.Error(err))
		}
	}

	u.publishStatusChanged(ctx, before, after)

	return after, nil
}

// StatusHistory returns the journaled status changes of an existing order, oldest first.
func (u *OrderService) StatusHistory(ctx context.Context, id string) ([]domain.StatusChange, error) {
	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if u.journal == nil {
		return nil, ErrJournalNotConfigured
	}
	return u.journal.FindByOrderID(ctx, id)
}

func (u *OrderService) publishStatusChanged(ctx context.Context, before, after *domain.Order) {
	if u.publisher == nil {
		return
	}

	evt := domain.OrderStatusChangedEvent{
		EventID:    uuid.NewString(),
		OrderID:    after.ID,
		Region:     after.Region,
		FromStatus: before.Status,
		ToStatus:   after.Status,
		OccurredAt: after.LastStatusUpdate,
	}

	if err := u.publisher.Publish(ctx, StatusChangedPattern, evt); err != nil {
		u.logger.Warn("failed to publish event", zap.String("pattern", StatusChangedPattern), zap.String("order_id", after.ID), zap.Error(err))
		return
	}
	u.logger.Debug("published event", zap.String("pattern", StatusChangedPattern), zap.String("event_id", evt.EventID))
}

func (u *OrderService) filterAll(ctx context.Context, filters analytics.FilterState, window *analytics.DateWindow, now time.Time) ([]domain.Order, error) {
	orders, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ApplyFilters(orders, filters, window, now)
}

func (u *OrderService) flightKey(key string) string {
	return strconv.FormatUint(u.version.Load(), 10) + "/" + key
}

// cacheGet must run before the store is read, so the returned ticket predates the data the
// caller goes on to compute.
func (u *OrderService) cacheGet(ctx context.Context, key string, dst any) (cacheTicket, bool) {
	if u.cache == nil {
		return cacheTicket{}, false
	}
	gen, hit, err := u.cache.Get(ctx, key, dst)
	if err != nil {
		u.logger.Warn("metrics cache read failed", zap.String("key", key), zap.Error(err))
		return cacheTicket{}, false
	}
	return cacheTicket{gen: gen, valid: true}, hit
}

func (u *OrderService) cacheSet(ctx context.Context, ticket cacheTicket, key string, value any) {
	if u.cache == nil || !ticket.valid {
		return
	}
	if err := u.cache.Set(ctx, ticket.gen, key, value); err != nil {
		u.logger.Warn("metrics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func filteredMetricsKey(f analytics.FilterState, window *analytics.DateWindow) string {
	parts := []string{
		orAll(f.Region),
		orAll(f.Status),
		orAll(string(f.DateRange)),
	}
	switch {
	case window == nil:
	case window.Preset != "":
		// Preset windows move with the clock, so like DateRange they are keyed by name.
		parts = append(parts, "preset="+string(window.Preset))
	default:
		parts = append(parts,
			strconv.FormatInt(window.Start.UnixNano(), 10),
			strconv.FormatInt(window.End.UnixNano(), 10),
		)
	}
	return filteredMetricsKeyPrefix + strings.Join(parts, "|")
}

func orAll(v string) string {
	if v == "" {
		return analytics.All
	}
	return v
}
