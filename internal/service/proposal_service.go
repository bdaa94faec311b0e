package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
	"github.com/ignatzorin/venture-backend/internal/repository"
	"github.com/ignatzorin/venture-backend/internal/validation"
)

// ProposalRepository описывает зависимости ProposalService от хранилища.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal, notification *models.Notification, audit *models.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notification *models.Notification, audit *models.AuditEntry) error
	UpdateTerms(ctx context.Context, proposal *models.Proposal, notification *models.Notification, audit *models.AuditEntry) error
	ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Proposal, error)
	ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.Proposal, error)
}

// ProposalTerms содержит условия предложения или контроффера.
type ProposalTerms struct {
	FundingAmount  float64
	EquityOffer    float64
	Milestones     models.Milestones
	TermSheetNotes *string
}

// ProposalService реализует переговоры по предложению:
// pending -> {accepted, rejected, countered}, countered повторно
// открыт для тех же переходов, accepted и rejected конечны.
type ProposalService struct {
	repo    ProposalRepository
	access  AccessChecker
	ideas   IdeaGetter
	users   UserGetter
	webhook WebhookNotifier
	cache   *CacheService
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(
	repo ProposalRepository,
	access AccessChecker,
	ideas IdeaGetter,
	users UserGetter,
	webhook WebhookNotifier,
	cache *CacheService,
) *ProposalService {
	return &ProposalService{
		repo:    repo,
		access:  access,
		ideas:   ideas,
		users:   users,
		webhook: webhook,
		cache:   cache,
	}
}

// Create регистрирует предложение инвестора с одобренным доступом.
// founder_id копируется из идеи в момент создания.
func (s *ProposalService) Create(ctx context.Context, investorID uuid.UUID, role string, ideaID uuid.UUID, terms ProposalTerms) (*models.Proposal, error) {
	if role != models.RoleInvestor {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только инвестор может отправлять предложения")
	}

	if err := validateProposalTerms(terms); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrIdeaNotFound) {
			return nil, apperror.ErrIdeaNotFound
		}
		return nil, err
	}

	approved, err := s.access.HasApproved(ctx, ideaID, investorID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperror.New(apperror.ErrCodeForbidden, "для предложения нужен одобренный доступ к идее")
	}

	investor, err := s.users.GetByID(ctx, investorID)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		IdeaID:         ideaID,
		InvestorID:     investorID,
		FounderID:      idea.FounderID,
		FundingAmount:  terms.FundingAmount,
		EquityOffer:    terms.EquityOffer,
		Milestones:     assignMilestoneIDs(terms.Milestones),
		TermSheetNotes: terms.TermSheetNotes,
	}

	notification := &models.Notification{
		UserID:  idea.FounderID,
		Type:    models.NotificationProposalReceived,
		Title:   "Новое инвестиционное предложение",
		Message: fmt.Sprintf("%s предлагает %.2f за %.2f%% по идее «%s»", investor.Name, terms.FundingAmount, terms.EquityOffer, idea.Title),
	}

	audit := &models.AuditEntry{
		Action:  models.AuditProposalCreated,
		Actor:   investor.Name,
		IdeaID:  &idea.ID,
		UserID:  investorID,
		Details: auditDetails(map[string]interface{}{"funding_amount": terms.FundingAmount, "equity_offer": terms.EquityOffer}),
	}

	if err := s.repo.Create(ctx, proposal, notification, audit); err != nil {
		return nil, err
	}

	s.webhook.Trigger("proposal.created", map[string]interface{}{
		"proposal_id": proposal.ID.String(),
		"idea_id":     ideaID.String(),
		"investor":    investor.Name,
	})
	s.cache.InvalidateUserCache(idea.FounderID)
	s.cache.InvalidateUserCache(investorID)

	return proposal, nil
}

// Accept принимает предложение. Доступно только основателю идеи
// из неконечного статуса.
func (s *ProposalService) Accept(ctx context.Context, proposalID, callerID uuid.UUID) (*models.Proposal, error) {
	return s.transition(ctx, proposalID, callerID, models.ProposalStatusAccepted,
		models.AuditProposalAccepted, models.NotificationProposalAccepted, "Предложение принято")
}

// Reject отклоняет предложение. Инвестор уведомляется так же,
// как и при принятии.
func (s *ProposalService) Reject(ctx context.Context, proposalID, callerID uuid.UUID) (*models.Proposal, error) {
	return s.transition(ctx, proposalID, callerID, models.ProposalStatusRejected,
		models.AuditProposalRejected, models.NotificationProposalRejected, "Предложение отклонено")
}

// transition выполняет общий переход accept/reject.
func (s *ProposalService) transition(
	ctx context.Context,
	proposalID, callerID uuid.UUID,
	status, auditAction, notificationType, title string,
) (*models.Proposal, error) {
	proposal, err := s.loadForFounder(ctx, proposalID, callerID)
	if err != nil {
		return nil, err
	}

	founder, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:    proposal.InvestorID,
		Type:      notificationType,
		Title:     title,
		Message:   fmt.Sprintf("%s: решение по вашему предложению — %s", founder.Name, status),
		RelatedID: &proposal.ID,
	}

	audit := &models.AuditEntry{
		Action:  auditAction,
		Actor:   founder.Name,
		IdeaID:  &proposal.IdeaID,
		UserID:  callerID,
		Details: auditDetails(map[string]interface{}{"status": status}),
	}

	if err := s.repo.UpdateStatus(ctx, proposalID, status, notification, audit); err != nil {
		return nil, err
	}

	proposal.Status = status

	s.webhook.Trigger("proposal."+status, map[string]interface{}{
		"proposal_id": proposal.ID.String(),
		"idea_id":     proposal.IdeaID.String(),
	})
	s.cache.InvalidateUserCache(callerID)
	s.cache.InvalidateUserCache(proposal.InvestorID)

	return proposal, nil
}

// Counter заменяет условия предложения контроффером основателя целиком.
// Прежние транши не сохраняются, число раундов не ограничено.
func (s *ProposalService) Counter(ctx context.Context, proposalID, callerID uuid.UUID, terms ProposalTerms) (*models.Proposal, error) {
	if err := validateProposalTerms(terms); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	proposal, err := s.loadForFounder(ctx, proposalID, callerID)
	if err != nil {
		return nil, err
	}

	founder, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	proposal.FundingAmount = terms.FundingAmount
	proposal.EquityOffer = terms.EquityOffer
	proposal.Milestones = assignMilestoneIDs(terms.Milestones)
	proposal.TermSheetNotes = terms.TermSheetNotes
	proposal.Status = models.ProposalStatusCountered

	notification := &models.Notification{
		UserID:    proposal.InvestorID,
		Type:      models.NotificationProposalCountered,
		Title:     "Контроффер основателя",
		Message:   fmt.Sprintf("%s предлагает новые условия: %.2f за %.2f%%", founder.Name, terms.FundingAmount, terms.EquityOffer),
		RelatedID: &proposal.ID,
	}

	audit := &models.AuditEntry{
		Action:  models.AuditProposalCountered,
		Actor:   founder.Name,
		IdeaID:  &proposal.IdeaID,
		UserID:  callerID,
		Details: auditDetails(map[string]interface{}{"funding_amount": terms.FundingAmount, "equity_offer": terms.EquityOffer}),
	}

	if err := s.repo.UpdateTerms(ctx, proposal, notification, audit); err != nil {
		return nil, err
	}

	s.webhook.Trigger("proposal.countered", map[string]interface{}{
		"proposal_id": proposal.ID.String(),
		"idea_id":     proposal.IdeaID.String(),
	})
	s.cache.InvalidateUserCache(callerID)
	s.cache.InvalidateUserCache(proposal.InvestorID)

	return proposal, nil
}

// List возвращает предложения в разрезе роли вызывающего.
func (s *ProposalService) List(ctx context.Context, userID uuid.UUID, role string) ([]models.Proposal, error) {
	if role == models.RoleFounder {
		return s.repo.ListByFounder(ctx, userID)
	}
	return s.repo.ListByInvestor(ctx, userID)
}

// loadForFounder загружает предложение и проверяет права и статус.
func (s *ProposalService) loadForFounder(ctx context.Context, proposalID, callerID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, err
	}

	if proposal.FounderID != callerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "распоряжаться предложением может только основатель идеи")
	}

	if proposal.IsTerminal() {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "предложение в конечном статусе: %s", proposal.Status)
	}

	return proposal, nil
}

// validateProposalTerms проверяет условия предложения.
func validateProposalTerms(terms ProposalTerms) error {
	if err := validation.ValidateFunding(terms.FundingAmount); err != nil {
		return err
	}
	if err := validation.ValidateEquity(terms.EquityOffer); err != nil {
		return err
	}
	if err := validation.ValidateMilestones(terms.Milestones); err != nil {
		return err
	}
	return validation.ValidateTermSheetNotes(terms.TermSheetNotes)
}

// assignMilestoneIDs выдаёт идентификаторы траншам, сохраняя порядок вызывающего.
func assignMilestoneIDs(milestones models.Milestones) models.Milestones {
	result := make(models.Milestones, len(milestones))
	for i, m := range milestones {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		result[i] = m
	}
	return result
}
