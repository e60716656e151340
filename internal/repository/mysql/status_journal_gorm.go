package mysql

import (
	"context"
	"time"

	"order-analytics/internal/domain"
	"order-analytics/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusChangeRecord is the journal row for one status change.
type StatusChangeRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"size:32;not null;index"`
	FromStatus string    `gorm:"size:32;not null"`
	ToStatus   string    `gorm:"size:32;not null"`
	ChangedAt  time.Time `gorm:"not null;index"`
}

func (StatusChangeRecord) TableName() string {
	return "order_status_changes"
}

type statusJournal struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStatusJournal(db *gorm.DB, logger *zap.Logger) repository.StatusJournal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &statusJournal{db: db, logger: logger}
}

func (j *statusJournal) Record(ctx context.Context, change domain.StatusChange) error {
	rec := StatusChangeRecord{
		OrderID:    change.OrderID,
		FromStatus: string(change.FromStatus),
		ToStatus:   string(change.ToStatus),
		ChangedAt:  change.ChangedAt,
	}

	result := j.db.WithContext(ctx).Create(&rec)
	if result.Error != nil {
		j.logger.Error("journal save failed", zap.String("order_id", change.OrderID), zap.Error(result.Error))
		return result.Error
	}

	j.logger.Debug("status change journaled", zap.String("order_id", change.OrderID), zap.Uint64("record_id", rec.ID))
	return nil
}

func (j *statusJournal) FindByOrderID(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	var rows []StatusChangeRecord
	err := j.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		j.logger.Error("journal lookup failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	out := make([]domain.StatusChange, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StatusChange{
			OrderID:    r.OrderID,
			FromStatus: domain.OrderStatus(r.FromStatus),
			ToStatus:   domain.OrderStatus(r.ToStatus),
			ChangedAt:  r.ChangedAt,
		})
	}
	return out, nil
}
