package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
)

// mockStatsRepo реализует все три stats-интерфейса дашборда
// фиксированными значениями и счётчиком обращений.
type mockStatsRepo struct {
	calls int64
}

func (m *mockStatsRepo) FounderIdeaStats(ctx context.Context, founderID uuid.UUID) (total, validated, published int, err error) {
	atomic.AddInt64(&m.calls, 1)
	return 5, 4, 2, nil
}

func (m *mockStatsRepo) CountPendingForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	atomic.AddInt64(&m.calls, 1)
	return 3, nil
}

func (m *mockStatsRepo) CountApprovedForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	atomic.AddInt64(&m.calls, 1)
	return 7, nil
}

func (m *mockStatsRepo) InvestorRequestStats(ctx context.Context, investorID uuid.UUID) (sent, approved int, err error) {
	atomic.AddInt64(&m.calls, 1)
	return 6, 2, nil
}

func (m *mockStatsRepo) CountReceivedForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	atomic.AddInt64(&m.calls, 1)
	return 4, nil
}

func (m *mockStatsRepo) InvestorProposalStats(ctx context.Context, investorID uuid.UUID) (sent, accepted int, err error) {
	atomic.AddInt64(&m.calls, 1)
	return 3, 1, nil
}

func TestDashboardService_FounderMetrics(t *testing.T) {
	stats := &mockStatsRepo{}
	svc := NewDashboardService(stats, stats, stats, NewCacheService(), time.Minute)

	result, err := svc.Metrics(context.Background(), uuid.New(), models.RoleFounder)
	require.NoError(t, err)

	metrics, ok := result.(*models.FounderMetrics)
	require.True(t, ok)
	assert.Equal(t, 5, metrics.TotalIdeas)
	assert.Equal(t, 4, metrics.ValidatedIdeas)
	assert.Equal(t, 2, metrics.PublishedIdeas)
	assert.Equal(t, 3, metrics.PendingRequests)
	assert.Equal(t, 7, metrics.ApprovedRequests)
	assert.Equal(t, 4, metrics.ProposalsReceived)
}

func TestDashboardService_InvestorMetrics(t *testing.T) {
	stats := &mockStatsRepo{}
	svc := NewDashboardService(stats, stats, stats, NewCacheService(), time.Minute)

	result, err := svc.Metrics(context.Background(), uuid.New(), models.RoleInvestor)
	require.NoError(t, err)

	metrics, ok := result.(*models.InvestorMetrics)
	require.True(t, ok)
	assert.Equal(t, 6, metrics.RequestsSent)
	assert.Equal(t, 2, metrics.RequestsApproved)
	assert.Equal(t, 3, metrics.ProposalsSent)
	assert.Equal(t, 1, metrics.ProposalsAccepted)
}

func TestDashboardService_UnknownRole(t *testing.T) {
	stats := &mockStatsRepo{}
	svc := NewDashboardService(stats, stats, stats, NewCacheService(), time.Minute)

	_, err := svc.Metrics(context.Background(), uuid.New(), "admin")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestDashboardService_CachesMetrics(t *testing.T) {
	stats := &mockStatsRepo{}
	cache := NewCacheService()
	svc := NewDashboardService(stats, stats, stats, cache, time.Minute)

	userID := uuid.New()
	_, err := svc.Metrics(context.Background(), userID, models.RoleFounder)
	require.NoError(t, err)
	first := atomic.LoadInt64(&stats.calls)
	assert.Equal(t, int64(4), first, "founder метрики собираются четырьмя запросами")

	_, err = svc.Metrics(context.Background(), userID, models.RoleFounder)
	require.NoError(t, err)
	assert.Equal(t, first, atomic.LoadInt64(&stats.calls), "повторный запрос берётся из кеша")

	// После инвалидации счётчики пересчитываются
	cache.InvalidateUserCache(userID)
	_, err = svc.Metrics(context.Background(), userID, models.RoleFounder)
	require.NoError(t, err)
	assert.Equal(t, first+4, atomic.LoadInt64(&stats.calls))
}
