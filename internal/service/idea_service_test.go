package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
	"github.com/ignatzorin/venture-backend/internal/repository"
)

// mockIdeaRepo реализует IdeaRepository и IdeaGetter поверх map.
type mockIdeaRepo struct {
	ideas     map[uuid.UUID]*models.Idea
	listItems []models.IdeaListItem
	audits    []models.AuditEntry
}

func newMockIdeaRepo() *mockIdeaRepo {
	return &mockIdeaRepo{ideas: make(map[uuid.UUID]*models.Idea)}
}

func (m *mockIdeaRepo) Create(ctx context.Context, idea *models.Idea, audit *models.AuditEntry) error {
	idea.ID = uuid.New()
	m.ideas[idea.ID] = idea
	if audit != nil {
		audit.IdeaID = &idea.ID
		m.audits = append(m.audits, *audit)
	}
	return nil
}

func (m *mockIdeaRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	if idea, ok := m.ideas[id]; ok {
		return idea, nil
	}
	return nil, repository.ErrIdeaNotFound
}

func (m *mockIdeaRepo) Publish(ctx context.Context, id uuid.UUID, audit *models.AuditEntry) error {
	idea, ok := m.ideas[id]
	if !ok {
		return repository.ErrIdeaNotFound
	}
	idea.Published = true
	if audit != nil {
		m.audits = append(m.audits, *audit)
	}
	return nil
}

func (m *mockIdeaRepo) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Idea, error) {
	var result []models.Idea
	for _, idea := range m.ideas {
		if idea.FounderID == founderID {
			result = append(result, *idea)
		}
	}
	return result, nil
}

func (m *mockIdeaRepo) ListPublished(ctx context.Context, viewerID uuid.UUID) ([]models.IdeaListItem, error) {
	return m.listItems, nil
}

func (m *mockIdeaRepo) ListAuditTrail(ctx context.Context, ideaID uuid.UUID) ([]models.AuditEntry, error) {
	var result []models.AuditEntry
	for _, entry := range m.audits {
		if entry.IdeaID != nil && *entry.IdeaID == ideaID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// stubAccessChecker отвечает на HasApproved по заранее заданным парам.
type stubAccessChecker struct {
	approved map[string]bool
}

func newStubAccessChecker() *stubAccessChecker {
	return &stubAccessChecker{approved: make(map[string]bool)}
}

func (s *stubAccessChecker) approve(ideaID, investorID uuid.UUID) {
	s.approved[ideaID.String()+"|"+investorID.String()] = true
}

func (s *stubAccessChecker) HasApproved(ctx context.Context, ideaID, investorID uuid.UUID) (bool, error) {
	return s.approved[ideaID.String()+"|"+investorID.String()], nil
}

// mockUserDirectory реализует UserGetter поверх map.
type mockUserDirectory struct {
	users map[uuid.UUID]*models.User
}

func newMockUserDirectory(users ...*models.User) *mockUserDirectory {
	m := &mockUserDirectory{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

// stubValidator возвращает фиксированную AI-оценку и считает вызовы.
type stubValidator struct {
	result *models.IdeaValidation
	calls  int
}

func (s *stubValidator) ValidateIdea(ctx context.Context, idea *models.Idea) *models.IdeaValidation {
	s.calls++
	if s.result != nil {
		return s.result
	}
	return &models.IdeaValidation{Score: 82, Summary: "Сильная идея", OriginalityScore: 64}
}

// recordingWebhook накапливает отправленные события.
type recordingWebhook struct {
	events []string
}

func (r *recordingWebhook) Trigger(event string, data map[string]interface{}) {
	r.events = append(r.events, event)
}

func testFounder() *models.User {
	return &models.User{ID: uuid.New(), Email: "founder@example.com", Name: "Анна Фаундер", Role: models.RoleFounder}
}

func testInvestor() *models.User {
	return &models.User{ID: uuid.New(), Email: "investor@example.com", Name: "Игорь Инвестор", Role: models.RoleInvestor}
}

func validIdeaInput() CreateIdeaInput {
	return CreateIdeaInput{
		Title:            "Платформа доставки дронами",
		Category:         "logistics",
		Description:      "Автономная доставка мелких грузов дронами в пределах города с диспетчеризацией в реальном времени.",
		ProblemStatement: "Курьерская доставка на последней миле дорогая и медленная.",
		Solution:         "Флот дронов с автоматическим распределением заказов.",
		TargetMarket:     "Городские e-commerce компании",
		BusinessModel:    "Комиссия с каждой доставки",
		RequestedFunding: 500000,
		EquityOffered:    12.5,
	}
}

func newTestIdeaService(repo *mockIdeaRepo, access *stubAccessChecker, users *mockUserDirectory, validator *stubValidator, hook *recordingWebhook) *IdeaService {
	return NewIdeaService(repo, access, users, validator, hook, NewCacheService())
}

func TestIdeaService_Create_OnlyFounder(t *testing.T) {
	investor := testInvestor()
	svc := newTestIdeaService(newMockIdeaRepo(), newStubAccessChecker(), newMockUserDirectory(investor), &stubValidator{}, &recordingWebhook{})

	_, err := svc.Create(context.Background(), investor.ID, models.RoleInvestor, validIdeaInput())
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestIdeaService_Create_ValidatesBeforeAICall(t *testing.T) {
	founder := testFounder()
	validator := &stubValidator{}
	svc := newTestIdeaService(newMockIdeaRepo(), newStubAccessChecker(), newMockUserDirectory(founder), validator, &recordingWebhook{})

	in := validIdeaInput()
	in.Title = "ab" // короче минимума

	_, err := svc.Create(context.Background(), founder.ID, models.RoleFounder, in)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, validator.calls, "невалидная идея не должна тратить вызов AI")
}

func TestIdeaService_Create_StoresScoreAuditAndWebhook(t *testing.T) {
	founder := testFounder()
	repo := newMockIdeaRepo()
	validator := &stubValidator{result: &models.IdeaValidation{Score: 91, Summary: "Отличный рынок", OriginalityScore: 77}}
	hook := &recordingWebhook{}
	svc := newTestIdeaService(repo, newStubAccessChecker(), newMockUserDirectory(founder), validator, hook)

	idea, err := svc.Create(context.Background(), founder.ID, models.RoleFounder, validIdeaInput())
	require.NoError(t, err)

	require.NotNil(t, idea.AIScore)
	assert.Equal(t, 91.0, *idea.AIScore)
	require.NotNil(t, idea.AISummary)
	assert.Equal(t, "Отличный рынок", *idea.AISummary)
	assert.Equal(t, 1, validator.calls)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditIdeaCreated, repo.audits[0].Action)
	assert.Equal(t, founder.Name, repo.audits[0].Actor)

	assert.Equal(t, []string{"idea.created"}, hook.events)
}

func TestIdeaService_Get_VisibilityGate(t *testing.T) {
	founder := testFounder()
	investor := testInvestor()
	stranger := testInvestor()

	repo := newMockIdeaRepo()
	access := newStubAccessChecker()
	svc := newTestIdeaService(repo, access, newMockUserDirectory(founder, investor, stranger), &stubValidator{}, &recordingWebhook{})

	ideaID := uuid.New()
	repo.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID, Title: "Идея", Description: "Описание"}
	access.approve(ideaID, investor.ID)

	_, visibility, err := svc.Get(context.Background(), ideaID, founder.ID, models.RoleFounder)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFull, visibility, "владелец видит всё")

	_, visibility, err = svc.Get(context.Background(), ideaID, investor.ID, models.RoleInvestor)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFull, visibility, "одобренный инвестор видит всё")

	_, visibility, err = svc.Get(context.Background(), ideaID, stranger.ID, models.RoleInvestor)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilitySummary, visibility, "без одобрения только summary")

	repo.ideas[ideaID].Published = true
	_, visibility, err = svc.Get(context.Background(), ideaID, stranger.ID, models.RoleInvestor)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFull, visibility, "опубликованная идея видна всем")
}

func TestIdeaService_Get_NotFound(t *testing.T) {
	svc := newTestIdeaService(newMockIdeaRepo(), newStubAccessChecker(), newMockUserDirectory(), &stubValidator{}, &recordingWebhook{})

	_, _, err := svc.Get(context.Background(), uuid.New(), uuid.New(), models.RoleInvestor)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestIdeaService_Publish(t *testing.T) {
	founder := testFounder()
	other := testFounder()
	repo := newMockIdeaRepo()
	hook := &recordingWebhook{}
	svc := newTestIdeaService(repo, newStubAccessChecker(), newMockUserDirectory(founder, other), &stubValidator{}, hook)

	ideaID := uuid.New()
	repo.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID, Title: "Идея"}

	_, err := svc.Publish(context.Background(), ideaID, other.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	idea, err := svc.Publish(context.Background(), ideaID, founder.ID)
	require.NoError(t, err)
	assert.True(t, idea.Published)
	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditIdeaPublished, repo.audits[0].Action)

	// Повторная публикация — no-op, без второй записи аудита
	_, err = svc.Publish(context.Background(), ideaID, founder.ID)
	require.NoError(t, err)
	assert.Len(t, repo.audits, 1)
	assert.Equal(t, []string{"idea.published"}, hook.events)
}

func TestIdeaService_ListPublished_TruncatesAndFlagsAccess(t *testing.T) {
	viewer := testInvestor()
	repo := newMockIdeaRepo()
	svc := newTestIdeaService(repo, newStubAccessChecker(), newMockUserDirectory(viewer), &stubValidator{}, &recordingWebhook{})

	long := strings.Repeat("д", 300)
	repo.listItems = []models.IdeaListItem{
		{ID: uuid.New(), Description: long, AccessStatus: models.AccessStatusApproved},
		{ID: uuid.New(), Description: "короткое описание", AccessStatus: models.AccessStatusPending},
		{ID: uuid.New(), Description: "своя идея", FounderID: viewer.ID},
	}

	items, err := svc.ListPublished(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, models.ListDescriptionLimit+3, len([]rune(items[0].Description)), "длинное описание усечено до лимита с многоточием")
	assert.True(t, strings.HasSuffix(items[0].Description, "..."))
	assert.True(t, items[0].HasAccess)

	assert.Equal(t, "короткое описание", items[1].Description)
	assert.False(t, items[1].HasAccess)

	assert.True(t, items[2].HasAccess, "основатель всегда имеет доступ к своей идее")
}

func TestIdeaService_AuditTrail_OwnerOnly(t *testing.T) {
	founder := testFounder()
	investor := testInvestor()
	repo := newMockIdeaRepo()
	svc := newTestIdeaService(repo, newStubAccessChecker(), newMockUserDirectory(founder, investor), &stubValidator{}, &recordingWebhook{})

	ideaID := uuid.New()
	repo.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID}
	repo.audits = append(repo.audits, models.AuditEntry{Action: models.AuditIdeaCreated, IdeaID: &ideaID, UserID: founder.ID})

	_, err := svc.AuditTrail(context.Background(), ideaID, investor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	entries, err := svc.AuditTrail(context.Background(), ideaID, founder.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
