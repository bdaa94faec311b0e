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

// AccessRequestRepository описывает зависимости AccessService от хранилища.
type AccessRequestRepository interface {
	Create(ctx context.Context, req *models.AccessRequest, notification *models.Notification, audit *models.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notification *models.Notification, audit *models.AuditEntry) error
	ListForFounder(ctx context.Context, founderID uuid.UUID) ([]models.AccessRequest, error)
	ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.AccessRequest, error)
}

// IdeaGetter возвращает идею по идентификатору.
type IdeaGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
}

// CreateAccessRequestInput содержит поля нового запроса доступа.
type CreateAccessRequestInput struct {
	IdeaID      uuid.UUID
	Message     string
	NDARequired bool
}

// AccessService инкапсулирует бизнес-логику запросов доступа:
// создание инвестором и решение основателя.
type AccessService struct {
	repo    AccessRequestRepository
	ideas   IdeaGetter
	users   UserGetter
	webhook WebhookNotifier
	cache   *CacheService
}

// NewAccessService создаёт сервис запросов доступа.
func NewAccessService(
	repo AccessRequestRepository,
	ideas IdeaGetter,
	users UserGetter,
	webhook WebhookNotifier,
	cache *CacheService,
) *AccessService {
	return &AccessService{
		repo:    repo,
		ideas:   ideas,
		users:   users,
		webhook: webhook,
		cache:   cache,
	}
}

// Create регистрирует запрос инвестора и уведомляет основателя.
// Повторные запросы по той же идее не запрещены: основатель может
// отклонить дубликат, уникальность пары здесь не обязательство.
func (s *AccessService) Create(ctx context.Context, investorID uuid.UUID, role string, in CreateAccessRequestInput) (*models.AccessRequest, error) {
	if role != models.RoleInvestor {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только инвестор может запрашивать доступ")
	}

	if err := validation.ValidateAccessMessage(in.Message); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	idea, err := s.ideas.GetByID(ctx, in.IdeaID)
	if err != nil {
		if errors.Is(err, repository.ErrIdeaNotFound) {
			return nil, apperror.ErrIdeaNotFound
		}
		return nil, err
	}

	investor, err := s.users.GetByID(ctx, investorID)
	if err != nil {
		return nil, err
	}

	req := &models.AccessRequest{
		IdeaID:      in.IdeaID,
		InvestorID:  investorID,
		Message:     in.Message,
		NDARequired: in.NDARequired,
	}

	notification := &models.Notification{
		UserID:  idea.FounderID,
		Type:    models.NotificationAccessRequest,
		Title:   "Новый запрос доступа",
		Message: fmt.Sprintf("%s запрашивает доступ к идее «%s»", investor.Name, idea.Title),
	}

	audit := &models.AuditEntry{
		Action:  models.AuditAccessRequestCreated,
		Actor:   investor.Name,
		IdeaID:  &idea.ID,
		UserID:  investorID,
		Details: auditDetails(map[string]interface{}{"nda_required": in.NDARequired}),
	}

	if err := s.repo.Create(ctx, req, notification, audit); err != nil {
		return nil, err
	}

	s.webhook.Trigger("access_request.created", map[string]interface{}{
		"request_id": req.ID.String(),
		"idea_id":    idea.ID.String(),
		"investor":   investor.Name,
	})
	s.cache.InvalidateUserCache(idea.FounderID)
	s.cache.InvalidateUserCache(investorID)

	return req, nil
}

// Respond фиксирует решение основателя по запросу доступа.
// Инвестор уведомляется при любом решении. Одобрение необратимо:
// пути отзыва в этой модели нет, гейт читает статус напрямую.
func (s *AccessService) Respond(ctx context.Context, requestID, founderID uuid.UUID, decision string) (*models.AccessRequest, error) {
	if _, ok := models.ValidAccessDecisions[decision]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "решение должно быть approved, rejected или more-info")
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrAccessRequestNotFound) {
			return nil, apperror.ErrAccessRequestNotFound
		}
		return nil, err
	}

	idea, err := s.ideas.GetByID(ctx, req.IdeaID)
	if err != nil {
		return nil, err
	}

	if idea.FounderID != founderID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отвечать на запрос может только основатель идеи")
	}

	if req.Status == models.AccessStatusApproved || req.Status == models.AccessStatusRejected {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "запрос уже обработан: %s", req.Status)
	}

	founder, err := s.users.GetByID(ctx, founderID)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:    req.InvestorID,
		Type:      accessDecisionNotificationType(decision),
		Title:     accessDecisionTitle(decision),
		Message:   fmt.Sprintf("%s: идея «%s», решение основателя — %s", founder.Name, idea.Title, decision),
		RelatedID: &req.ID,
	}

	audit := &models.AuditEntry{
		Action:  models.AuditAccessRequestResponded,
		Actor:   founder.Name,
		IdeaID:  &idea.ID,
		UserID:  founderID,
		Details: auditDetails(map[string]interface{}{"decision": decision}),
	}

	if err := s.repo.UpdateStatus(ctx, requestID, decision, notification, audit); err != nil {
		return nil, err
	}

	req.Status = decision

	s.webhook.Trigger("access_request.responded", map[string]interface{}{
		"request_id": req.ID.String(),
		"idea_id":    idea.ID.String(),
		"decision":   decision,
	})
	s.cache.InvalidateUserCache(founderID)
	s.cache.InvalidateUserCache(req.InvestorID)

	return req, nil
}

// List возвращает запросы доступа в разрезе роли вызывающего:
// основатель видит запросы по своим идеям, инвестор — свои отправленные.
func (s *AccessService) List(ctx context.Context, userID uuid.UUID, role string) ([]models.AccessRequest, error) {
	if role == models.RoleFounder {
		return s.repo.ListForFounder(ctx, userID)
	}
	return s.repo.ListByInvestor(ctx, userID)
}

func accessDecisionNotificationType(decision string) string {
	switch decision {
	case models.AccessStatusApproved:
		return models.NotificationAccessApproved
	case models.AccessStatusRejected:
		return models.NotificationAccessRejected
	default:
		return models.NotificationAccessMoreInfo
	}
}

func accessDecisionTitle(decision string) string {
	switch decision {
	case models.AccessStatusApproved:
		return "Доступ одобрен"
	case models.AccessStatusRejected:
		return "Доступ отклонён"
	default:
		return "Нужна дополнительная информация"
	}
}
