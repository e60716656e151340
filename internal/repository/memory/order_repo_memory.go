package memory

import (
	"context"
	"sync"
	"time"

	"order-analytics/internal/domain"
	"order-analytics/internal/repository"

	"go.uber.org/zap"
)

type orderRepo struct {
	mu     sync.RWMutex
	orders []domain.Order
	index  map[string]int
	logger *zap.Logger
}

// NewOrderRepository takes ownership of a copy of orders. The slice order is kept for every read.
func NewOrderRepository(orders []domain.Order, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &orderRepo{
		orders: domain.CloneOrders(orders),
		index:  make(map[string]int, len(orders)),
		logger: logger,
	}
	for i, o := range r.orders {
		if _, dup := r.index[o.ID]; dup {
			logger.Warn("duplicate order id ignored for lookups", zap.String("order_id", o.ID))
			continue
		}
		r.index[o.ID] = i
	}
	return r
}

func (r *orderRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneOrders(r.orders), nil
}

func (r *orderRepo) FindByRegion(_ context.Context, region domain.Region) ([]domain.Order, error) {
	return r.where(func(o *domain.Order) bool { return o.Region == region }), nil
}

func (r *orderRepo) FindByStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.where(func(o *domain.Order) bool { return o.Status == status }), nil
}

func (r *orderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o := r.orders[i].Clone()
	return &o, nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, at time.Time) (*domain.Order, *domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, nil, repository.ErrOrderNotFound
	}

	before := r.orders[i].Clone()

	o := &r.orders[i]
	o.Status = status
	if at.After(o.LastStatusUpdate) {
		o.LastStatusUpdate = at
	}

	after := o.Clone()
	r.logger.Debug("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(before.Status)),
		zap.String("to", string(status)),
	)
	return &before, &after, nil
}

func (r *orderRepo) where(match func(*domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0)
	for i := range r.orders {
		if match(&r.orders[i]) {
			out = append(out, r.orders[i].Clone())
		}
	}
	return out
}
