package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/domain"
	"order-analytics/internal/mocks"
	"order-analytics/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryService(t *testing.T) *OrderService {
	t.Helper()
	repo := memory.NewOrderRepository(CreateMockDataset(), zap.NewNop())
	return NewOrderService(repo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
}

func TestOrderService_GetOrderByID(t *testing.T) {
	tests := []struct {
		name          string
		orderID       string
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError error
	}{
		{
			name:    "successful order retrieval",
			orderID: TestOrderID,
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				o := CreateMockOrder(TestOrderID, domain.RegionUS, domain.StatusPending, 1000, TestNow)
				mockRepo.On("FindByID", mock.Anything, TestOrderID).Return(&o, nil)
			},
		},
		{
			name:    "order not found",
			orderID: "KL-US-MISSING",
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, "KL-US-MISSING").Return(nil, ErrOrderNotFound)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name:    "repository error",
			orderID: TestOrderID,
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, TestOrderID).Return(nil, errors.New("store unavailable"))
			},
			expectedError: errors.New("store unavailable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			tt.setupMocks(mockRepo)

			service := NewOrderService(mockRepo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
			result, err := service.GetOrderByID(context.Background(), tt.orderID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				if tt.expectedError == ErrOrderNotFound {
					assert.ErrorIs(t, err, ErrOrderNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.orderID, result.ID)
				assert.Equal(t, domain.StatusPending, result.Status)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrdersByRegionAndStatus(t *testing.T) {
	service := newMemoryService(t)
	ctx := context.Background()

	us, err := service.GetOrdersByRegion(ctx, domain.RegionUS)
	require.NoError(t, err)
	assert.Len(t, us, 2)

	shipped, err := service.GetOrdersByStatus(ctx, domain.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, TestOrderID, shipped[0].ID)

	_, err = service.GetOrdersByRegion(ctx, "EU")
	assert.ErrorIs(t, err, analytics.ErrMalformedFilter)

	_, err = service.GetOrdersByStatus(ctx, "Lost")
	assert.ErrorIs(t, err, analytics.ErrMalformedFilter)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	before := CreateMockOrder(TestOrderID, domain.RegionUS, domain.StatusShipped, 1000, TestNow.Add(-48*time.Hour))
	after := before.Clone()
	after.Status = domain.StatusDelivered
	after.LastStatusUpdate = TestNow

	change := domain.StatusChange{
		OrderID:    TestOrderID,
		FromStatus: domain.StatusShipped,
		ToStatus:   domain.StatusDelivered,
		ChangedAt:  TestNow,
	}
	isStatusEvent := mock.MatchedBy(func(evt domain.OrderStatusChangedEvent) bool {
		return evt.EventID != "" &&
			evt.OrderID == TestOrderID &&
			evt.Region == domain.RegionUS &&
			evt.FromStatus == domain.StatusShipped &&
			evt.ToStatus == domain.StatusDelivered &&
			evt.OccurredAt.Equal(TestNow)
	})

	noMocks := func(*mocks.MockOrderRepository, *mocks.MockMetricsCache, *mocks.MockStatusJournal, *mocks.MockPublisher) {}

	tests := []struct {
		name          string
		status        domain.OrderStatus
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockMetricsCache, *mocks.MockStatusJournal, *mocks.MockPublisher)
		expectedError error
	}{
		{
			name:   "successful update fans out",
			status: domain.StatusDelivered,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockMetricsCache, journal *mocks.MockStatusJournal, pub *mocks.MockPublisher) {
				repo.On("UpdateStatus", mock.Anything, TestOrderID, domain.StatusDelivered, TestNow).Return(&before, &after, nil)
				cache.On("Invalidate", mock.Anything).Return(nil)
				journal.On("Record", mock.Anything, change).Return(nil)
				pub.On("Publish", mock.Anything, StatusChangedPattern, isStatusEvent).Return(nil)
			},
		},
		{
			name:   "adapter failures do not fail the update",
			status: domain.StatusDelivered,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockMetricsCache, journal *mocks.MockStatusJournal, pub *mocks.MockPublisher) {
				repo.On("UpdateStatus", mock.Anything, TestOrderID, domain.StatusDelivered, TestNow).Return(&before, &after, nil)
				cache.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
				journal.On("Record", mock.Anything, change).Return(errors.New("mysql down"))
				pub.On("Publish", mock.Anything, StatusChangedPattern, isStatusEvent).Return(errors.New("broker down"))
			},
		},
		{
			name:          "unknown status is rejected before the store",
			status:        "Lost",
			setupMocks:    noMocks,
			expectedError: ErrInvalidStatus,
		},
		{
			name:   "order not found",
			status: domain.StatusDelivered,
			setupMocks: func(repo *mocks.MockOrderRepository, _ *mocks.MockMetricsCache, _ *mocks.MockStatusJournal, _ *mocks.MockPublisher) {
				repo.On("UpdateStatus", mock.Anything, TestOrderID, domain.StatusDelivered, TestNow).Return(nil, nil, ErrOrderNotFound)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			mockCache := new(mocks.MockMetricsCache)
			mockJournal := new(mocks.MockStatusJournal)
			mockPublisher := new(mocks.MockPublisher)

			tt.setupMocks(mockRepo, mockCache, mockJournal, mockPublisher)

			service := NewOrderService(mockRepo, mockPublisher, domain.FixedClock{At: TestNow}, zap.NewNop())
			service.SetMetricsCache(mockCache)
			service.SetStatusJournal(mockJournal)

			result, err := service.UpdateOrderStatus(context.Background(), TestOrderID, tt.status)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, domain.StatusDelivered, result.Status)
				assert.Equal(t, TestNow, result.LastStatusUpdate)
			}

			mockRepo.AssertExpectations(t)
			mockCache.AssertExpectations(t)
			mockJournal.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatusAgainstMemoryStore(t *testing.T) {
	service := newMemoryService(t)
	ctx := context.Background()

	updated, err := service.UpdateOrderStatus(ctx, TestOrderID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	got, err := service.GetOrderByID(ctx, TestOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
	assert.Equal(t, TestNow, got.LastStatusUpdate)

	atRisk, err := service.GetAtRiskOrders(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, atRisk, "delivered orders are never at risk")

	// Backwards moves are accepted.
	_, err = service.UpdateOrderStatus(ctx, TestOrderID, domain.StatusPending)
	require.NoError(t, err)
}

func TestOrderService_GetSummaryMetrics(t *testing.T) {
	service := newMemoryService(t)

	m, err := service.GetSummaryMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, m.TotalOrders)
	assert.True(t, decimal.NewFromInt(4250).Equal(m.TotalRevenue))
	assert.Equal(t, 2, m.OrdersByRegion[domain.RegionUS].Count)
	assert.Equal(t, 1, m.OrdersByStatus[domain.StatusDelivered])
	assert.Equal(t, 3, m.RecentTrends.Last7Days.Count)
	// 4 orders over the 90-day baseline projected to 30 days.
	assert.Equal(t, 1, m.NextPeriodPrediction.PredictedOrders)
}

func TestOrderService_GetSummaryMetricsUsesCache(t *testing.T) {
	t.Run("hit skips the store", func(t *testing.T) {
		mockRepo := new(mocks.MockOrderRepository)
		mockCache := new(mocks.MockMetricsCache)
		mockCache.On("Get", mock.Anything, globalMetricsCacheKey, mock.AnythingOfType("*domain.SummaryMetrics")).
			Return(int64(3), true, nil).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.SummaryMetrics).TotalOrders = 7
			})

		service := NewOrderService(mockRepo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
		service.SetMetricsCache(mockCache)

		m, err := service.GetSummaryMetrics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, m.TotalOrders)

		mockRepo.AssertNotCalled(t, "FindAll", mock.Anything)
		mockCache.AssertExpectations(t)
	})

	t.Run("miss computes and stores", func(t *testing.T) {
		mockRepo := new(mocks.MockOrderRepository)
		mockCache := new(mocks.MockMetricsCache)
		mockRepo.On("FindAll", mock.Anything).Return(CreateMockDataset(), nil)
		mockCache.On("Get", mock.Anything, globalMetricsCacheKey, mock.Anything).Return(int64(5), false, nil)
		mockCache.On("Set", mock.Anything, int64(5), globalMetricsCacheKey, mock.AnythingOfType("domain.SummaryMetrics")).Return(nil)

		service := NewOrderService(mockRepo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
		service.SetMetricsCache(mockCache)

		m, err := service.GetSummaryMetrics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, m.TotalOrders)

		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("cache errors fall back to the store", func(t *testing.T) {
		mockRepo := new(mocks.MockOrderRepository)
		mockCache := new(mocks.MockMetricsCache)
		mockRepo.On("FindAll", mock.Anything).Return(CreateMockDataset(), nil)
		mockCache.On("Get", mock.Anything, globalMetricsCacheKey, mock.Anything).Return(int64(0), false, errors.New("timeout"))

		service := NewOrderService(mockRepo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
		service.SetMetricsCache(mockCache)

		m, err := service.GetSummaryMetrics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, m.TotalOrders)

		// Without a known generation the result is not written back.
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_SummarizeFiltered(t *testing.T) {
	service := newMemoryService(t)
	ctx := context.Background()

	summary, err := service.SummarizeFiltered(ctx, analytics.FilterState{Region: "US"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MatchedOrders)
	assert.Equal(t, 2, summary.Metrics.TotalOrders)
	assert.True(t, decimal.NewFromInt(1750).Equal(summary.Metrics.TotalRevenue))
	assert.Equal(t, "US", summary.Filters.Region)

	window := analytics.DateWindow{Start: TestNow.Add(-7 * 24 * time.Hour), End: TestNow}
	summary, err = service.SummarizeFiltered(ctx, analytics.DefaultFilters(), &window)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.MatchedOrders)
	require.NotNil(t, summary.Window)

	_, err = service.SummarizeFiltered(ctx, analytics.FilterState{Status: "Lost"}, nil)
	assert.ErrorIs(t, err, analytics.ErrMalformedFilter)
}

func TestOrderService_SummarizeFilteredCacheKey(t *testing.T) {
	mockRepo := new(mocks.MockOrderRepository)
	mockCache := new(mocks.MockMetricsCache)
	mockRepo.On("FindAll", mock.Anything).Return(CreateMockDataset(), nil)
	mockCache.On("Get", mock.Anything, "filtered:US|all|all", mock.Anything).Return(int64(2), false, nil)
	mockCache.On("Set", mock.Anything, int64(2), "filtered:US|all|all", mock.AnythingOfType("services.FilteredSummary")).Return(nil)

	service := NewOrderService(mockRepo, nil, domain.FixedClock{At: TestNow}, zap.NewNop())
	service.SetMetricsCache(mockCache)

	_, err := service.SummarizeFiltered(context.Background(), analytics.FilterState{Region: "US"}, nil)
	require.NoError(t, err)

	mockCache.AssertExpectations(t)
}

func TestOrderService_GetAtRiskOrders(t *testing.T) {
	service := newMemoryService(t)
	ctx := context.Background()

	atRisk, err := service.GetAtRiskOrders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, atRisk, 1)
	assert.Equal(t, TestOrderID, atRisk[0].ID)
	assert.Equal(t, 30, atRisk[0].DaysOverdue)

	earlier := TestNow.Add(-35 * 24 * time.Hour)
	atRisk, err = service.GetAtRiskOrders(ctx, &earlier)
	require.NoError(t, err)
	assert.Empty(t, atRisk)
	assert.NotNil(t, atRisk)
}

func TestOrderService_ApplyFilters(t *testing.T) {
	service := newMemoryService(t)

	filtered, err := service.ApplyFilters(context.Background(), CreateMockDataset(), analytics.FilterState{DateRange: analytics.DateRange7Days}, nil)
	require.NoError(t, err)
	assert.Len(t, filtered, 3)

	all, err := service.FilterOrders(context.Background(), analytics.DefaultFilters(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestOrderService_StatusHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("journal not configured", func(t *testing.T) {
		service := newMemoryService(t)
		_, err := service.StatusHistory(ctx, TestOrderID)
		assert.ErrorIs(t, err, ErrJournalNotConfigured)
	})

	t.Run("unknown order", func(t *testing.T) {
		service := newMemoryService(t)
		service.SetStatusJournal(new(mocks.MockStatusJournal))
		_, err := service.StatusHistory(ctx, "KL-US-MISSING")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("journaled changes", func(t *testing.T) {
		history := []domain.StatusChange{{
			OrderID:    TestOrderID,
			FromStatus: domain.StatusShipped,
			ToStatus:   domain.StatusDelivered,
			ChangedAt:  TestNow,
		}}
		mockJournal := new(mocks.MockStatusJournal)
		mockJournal.On("FindByOrderID", mock.Anything, TestOrderID).Return(history, nil)

		service := newMemoryService(t)
		service.SetStatusJournal(mockJournal)

		got, err := service.StatusHistory(ctx, TestOrderID)
		require.NoError(t, err)
		assert.Equal(t, history, got)
		mockJournal.AssertExpectations(t)
	})
}

func TestOrderService_ConcurrentReadsAndUpdates(t *testing.T) {
	service := newMemoryService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			status := domain.OrderStatuses[n%len(domain.OrderStatuses)]
			_, err := service.UpdateOrderStatus(ctx, TestUKOrderID, status)
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			m, err := service.GetSummaryMetrics(ctx)
			assert.NoError(t, err)
			assert.Equal(t, 4, m.TotalOrders)
		}()
	}
	wg.Wait()
}
