package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
	"github.com/ignatzorin/venture-backend/internal/repository"
	"github.com/ignatzorin/venture-backend/internal/validation"
)

// IdeaRepository описывает зависимости IdeaService от слоя хранилища.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea, audit *models.AuditEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)
	Publish(ctx context.Context, id uuid.UUID, audit *models.AuditEntry) error
	ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Idea, error)
	ListPublished(ctx context.Context, viewerID uuid.UUID) ([]models.IdeaListItem, error)
	ListAuditTrail(ctx context.Context, ideaID uuid.UUID) ([]models.AuditEntry, error)
}

// AccessChecker проверяет наличие одобренного запроса доступа.
type AccessChecker interface {
	HasApproved(ctx context.Context, ideaID, investorID uuid.UUID) (bool, error)
}

// IdeaValidator оценивает идею через AI. Ошибки провайдера скрыты
// за fallback-оценкой, вызов всегда возвращает результат.
type IdeaValidator interface {
	ValidateIdea(ctx context.Context, idea *models.Idea) *models.IdeaValidation
}

// WebhookNotifier отправляет доменные события во внешний пайплайн.
type WebhookNotifier interface {
	Trigger(event string, data map[string]interface{})
}

// UserGetter возвращает пользователя по идентификатору.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateIdeaInput содержит поля новой идеи.
type CreateIdeaInput struct {
	Title            string
	Category         string
	Description      string
	ProblemStatement string
	Solution         string
	TargetMarket     string
	BusinessModel    string
	RequestedFunding float64
	EquityOffered    float64
	Traction         *string
}

// IdeaService инкапсулирует бизнес-логику идей: создание с AI-оценкой,
// гейт видимости, публикацию и журнал действий.
type IdeaService struct {
	repo    IdeaRepository
	access  AccessChecker
	users   UserGetter
	ai      IdeaValidator
	webhook WebhookNotifier
	cache   *CacheService
}

// NewIdeaService создаёт сервис идей.
func NewIdeaService(
	repo IdeaRepository,
	access AccessChecker,
	users UserGetter,
	ai IdeaValidator,
	webhook WebhookNotifier,
	cache *CacheService,
) *IdeaService {
	return &IdeaService{
		repo:    repo,
		access:  access,
		users:   users,
		ai:      ai,
		webhook: webhook,
		cache:   cache,
	}
}

// Create валидирует поля, запрашивает AI-оценку и сохраняет идею.
// Валидация идёт строго до обращения к AI: некорректная идея
// не тратит вызов провайдера.
func (s *IdeaService) Create(ctx context.Context, founderID uuid.UUID, role string, in CreateIdeaInput) (*models.Idea, error) {
	if role != models.RoleFounder {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только основатель может создавать идеи")
	}

	if err := validateIdeaInput(in); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	founder, err := s.users.GetByID(ctx, founderID)
	if err != nil {
		return nil, err
	}

	idea := &models.Idea{
		FounderID:        founderID,
		Title:            strings.TrimSpace(in.Title),
		Category:         strings.TrimSpace(in.Category),
		Description:      strings.TrimSpace(in.Description),
		ProblemStatement: strings.TrimSpace(in.ProblemStatement),
		Solution:         strings.TrimSpace(in.Solution),
		TargetMarket:     strings.TrimSpace(in.TargetMarket),
		BusinessModel:    strings.TrimSpace(in.BusinessModel),
		RequestedFunding: in.RequestedFunding,
		EquityOffered:    in.EquityOffered,
		Traction:         in.Traction,
	}

	v := s.ai.ValidateIdea(ctx, idea)
	idea.AIScore = &v.Score
	idea.AISummary = &v.Summary
	idea.OriginalityScore = &v.OriginalityScore
	idea.Embedding = v.Embedding

	audit := &models.AuditEntry{
		Action:  models.AuditIdeaCreated,
		Actor:   founder.Name,
		UserID:  founderID,
		Details: auditDetails(map[string]interface{}{"title": idea.Title}),
	}

	if err := s.repo.Create(ctx, idea, audit); err != nil {
		return nil, err
	}

	s.webhook.Trigger("idea.created", map[string]interface{}{
		"idea_id":  idea.ID.String(),
		"title":    idea.Title,
		"founder":  founder.Name,
		"ai_score": v.Score,
	})
	s.cache.InvalidateUserCache(founderID)

	return idea, nil
}

// Get возвращает идею и видимость для зрителя: full или summary.
// Полная проекция доступна владельцу, держателю одобренного запроса
// и любому зрителю опубликованной идеи.
func (s *IdeaService) Get(ctx context.Context, ideaID, viewerID uuid.UUID, role string) (*models.Idea, string, error) {
	idea, err := s.repo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrIdeaNotFound) {
			return nil, "", apperror.ErrIdeaNotFound
		}
		return nil, "", err
	}

	full, err := s.canViewFull(ctx, idea, viewerID)
	if err != nil {
		return nil, "", err
	}
	if full {
		return idea, models.VisibilityFull, nil
	}

	return idea, models.VisibilitySummary, nil
}

// ListForFounder возвращает собственные идеи основателя без усечений.
func (s *IdeaService) ListForFounder(ctx context.Context, founderID uuid.UUID) ([]models.Idea, error) {
	return s.repo.ListByFounder(ctx, founderID)
}

// ListPublished возвращает каталог опубликованных идей для инвестора.
// Описания усечены, каждая идея аннотирована статусом доступа зрителя.
func (s *IdeaService) ListPublished(ctx context.Context, viewerID uuid.UUID) ([]models.IdeaListItem, error) {
	items, err := s.repo.ListPublished(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Description = truncate(items[i].Description, models.ListDescriptionLimit)
		items[i].HasAccess = items[i].AccessStatus == models.AccessStatusApproved ||
			items[i].FounderID == viewerID
	}

	return items, nil
}

// Publish делает идею видимой всем. Повторная публикация — no-op.
func (s *IdeaService) Publish(ctx context.Context, ideaID, callerID uuid.UUID) (*models.Idea, error) {
	idea, err := s.repo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrIdeaNotFound) {
			return nil, apperror.ErrIdeaNotFound
		}
		return nil, err
	}

	if idea.FounderID != callerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "публиковать идею может только её основатель")
	}

	if idea.Published {
		return idea, nil
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	audit := &models.AuditEntry{
		Action:  models.AuditIdeaPublished,
		Actor:   caller.Name,
		IdeaID:  &idea.ID,
		UserID:  callerID,
		Details: auditDetails(map[string]interface{}{"title": idea.Title}),
	}

	if err := s.repo.Publish(ctx, ideaID, audit); err != nil {
		return nil, err
	}

	idea.Published = true

	s.webhook.Trigger("idea.published", map[string]interface{}{
		"idea_id": idea.ID.String(),
		"title":   idea.Title,
	})
	s.cache.InvalidateUserCache(callerID)

	return idea, nil
}

// AuditTrail возвращает журнал действий по идее. Доступен только владельцу.
func (s *IdeaService) AuditTrail(ctx context.Context, ideaID, callerID uuid.UUID) ([]models.AuditEntry, error) {
	idea, err := s.repo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrIdeaNotFound) {
			return nil, apperror.ErrIdeaNotFound
		}
		return nil, err
	}

	if idea.FounderID != callerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "журнал действий доступен только основателю идеи")
	}

	return s.repo.ListAuditTrail(ctx, ideaID)
}

// canViewFull реализует гейт видимости. Чистое чтение без побочных эффектов:
// право выводится из статуса запроса доступа при каждом обращении.
func (s *IdeaService) canViewFull(ctx context.Context, idea *models.Idea, viewerID uuid.UUID) (bool, error) {
	if idea.FounderID == viewerID {
		return true, nil
	}
	if idea.Published {
		return true, nil
	}

	approved, err := s.access.HasApproved(ctx, idea.ID, viewerID)
	if err != nil {
		return false, err
	}

	return approved, nil
}

// validateIdeaInput проверяет поля идеи и возвращает первую ошибку.
func validateIdeaInput(in CreateIdeaInput) error {
	if err := validation.ValidateIdeaTitle(in.Title); err != nil {
		return err
	}
	if err := validation.ValidateNonEmptyCategory(in.Category); err != nil {
		return err
	}
	if err := validation.ValidateIdeaDescription(in.Description); err != nil {
		return err
	}
	if err := validation.ValidateProblemStatement(in.ProblemStatement); err != nil {
		return err
	}
	if err := validation.ValidateSolution(in.Solution); err != nil {
		return err
	}
	if err := validation.ValidateTargetMarket(in.TargetMarket); err != nil {
		return err
	}
	if err := validation.ValidateBusinessModel(in.BusinessModel); err != nil {
		return err
	}
	if err := validation.ValidateFunding(in.RequestedFunding); err != nil {
		return err
	}
	return validation.ValidateEquity(in.EquityOffered)
}

// truncate усекает строку до limit рун и добавляет многоточие.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// auditDetails сериализует детали записи аудита.
func auditDetails(data map[string]interface{}) json.RawMessage {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return raw
}
