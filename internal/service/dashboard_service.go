package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
)

// IdeaStatsRepository отдаёт счётчики идей для дашборда.
type IdeaStatsRepository interface {
	FounderIdeaStats(ctx context.Context, founderID uuid.UUID) (total, validated, published int, err error)
}

// AccessStatsRepository отдаёт счётчики запросов доступа для дашборда.
type AccessStatsRepository interface {
	CountPendingForFounder(ctx context.Context, founderID uuid.UUID) (int, error)
	CountApprovedForFounder(ctx context.Context, founderID uuid.UUID) (int, error)
	InvestorRequestStats(ctx context.Context, investorID uuid.UUID) (sent, approved int, err error)
}

// ProposalStatsRepository отдаёт счётчики предложений для дашборда.
type ProposalStatsRepository interface {
	CountReceivedForFounder(ctx context.Context, founderID uuid.UUID) (int, error)
	InvestorProposalStats(ctx context.Context, investorID uuid.UUID) (sent, accepted int, err error)
}

// DashboardService собирает метрики по роли. Счётчики считаются
// параллельными запросами и кешируются на короткий TTL; мутации
// инвалидируют кеш затронутых пользователей.
type DashboardService struct {
	ideas     IdeaStatsRepository
	access    AccessStatsRepository
	proposals ProposalStatsRepository
	cache     *CacheService
	cacheTTL  time.Duration
}

// NewDashboardService создаёт сервис дашборда.
func NewDashboardService(
	ideas IdeaStatsRepository,
	access AccessStatsRepository,
	proposals ProposalStatsRepository,
	cache *CacheService,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		ideas:     ideas,
		access:    access,
		proposals: proposals,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Metrics возвращает метрики дашборда для пользователя в заданной роли.
func (s *DashboardService) Metrics(ctx context.Context, userID uuid.UUID, role string) (interface{}, error) {
	switch role {
	case models.RoleFounder:
		return s.cache.GetOrSet(ctx, DashboardCacheKey(userID, role), s.cacheTTL, func() (interface{}, error) {
			return s.founderMetrics(ctx, userID)
		})
	case models.RoleInvestor:
		return s.cache.GetOrSet(ctx, DashboardCacheKey(userID, role), s.cacheTTL, func() (interface{}, error) {
			return s.investorMetrics(ctx, userID)
		})
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть founder или investor")
	}
}

func (s *DashboardService) founderMetrics(ctx context.Context, founderID uuid.UUID) (*models.FounderMetrics, error) {
	metrics := &models.FounderMetrics{}

	var wg sync.WaitGroup
	var ideaErr, pendingErr, approvedErr, proposalErr error

	wg.Add(4)
	go func() {
		defer wg.Done()
		metrics.TotalIdeas, metrics.ValidatedIdeas, metrics.PublishedIdeas, ideaErr = s.ideas.FounderIdeaStats(ctx, founderID)
	}()
	go func() {
		defer wg.Done()
		metrics.PendingRequests, pendingErr = s.access.CountPendingForFounder(ctx, founderID)
	}()
	go func() {
		defer wg.Done()
		metrics.ApprovedRequests, approvedErr = s.access.CountApprovedForFounder(ctx, founderID)
	}()
	go func() {
		defer wg.Done()
		metrics.ProposalsReceived, proposalErr = s.proposals.CountReceivedForFounder(ctx, founderID)
	}()
	wg.Wait()

	for _, err := range []error{ideaErr, pendingErr, approvedErr, proposalErr} {
		if err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

func (s *DashboardService) investorMetrics(ctx context.Context, investorID uuid.UUID) (*models.InvestorMetrics, error) {
	metrics := &models.InvestorMetrics{}

	var wg sync.WaitGroup
	var requestErr, proposalErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		metrics.RequestsSent, metrics.RequestsApproved, requestErr = s.access.InvestorRequestStats(ctx, investorID)
	}()
	go func() {
		defer wg.Done()
		metrics.ProposalsSent, metrics.ProposalsAccepted, proposalErr = s.proposals.InvestorProposalStats(ctx, investorID)
	}()
	wg.Wait()

	if requestErr != nil {
		return nil, requestErr
	}
	if proposalErr != nil {
		return nil, proposalErr
	}

	return metrics, nil
}
