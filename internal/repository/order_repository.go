package repository

import (
	"context"
	"errors"
	"time"

	"order-analytics/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is the single store of orders. Every read returns copies the caller may modify
// freely.
type OrderRepository interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByRegion(ctx context.Context, region domain.Region) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// UpdateStatus sets the status and stamps LastStatusUpdate with at, never moving it backwards.
	// It returns the order as it was before the change alongside the updated copy, or
	// ErrOrderNotFound.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (before, after *domain.Order, err error)
}

// StatusJournal keeps an append-only audit trail of status changes.
type StatusJournal interface {
	Record(ctx context.Context, change domain.StatusChange) error
	FindByOrderID(ctx context.Context, orderID string) ([]domain.StatusChange, error)
}
