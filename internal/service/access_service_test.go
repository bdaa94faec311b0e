package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/pkg/apperror"
	"github.com/ignatzorin/venture-backend/internal/repository"
)

// mockAccessRepo реализует AccessRequestRepository и AccessChecker поверх map.
type mockAccessRepo struct {
	requests      map[uuid.UUID]*models.AccessRequest
	notifications []models.Notification
	audits        []models.AuditEntry
}

func newMockAccessRepo() *mockAccessRepo {
	return &mockAccessRepo{requests: make(map[uuid.UUID]*models.AccessRequest)}
}

func (m *mockAccessRepo) Create(ctx context.Context, req *models.AccessRequest, notification *models.Notification, audit *models.AuditEntry) error {
	req.ID = uuid.New()
	req.Status = models.AccessStatusPending
	m.requests[req.ID] = req
	if notification != nil {
		notification.RelatedID = &req.ID
		m.notifications = append(m.notifications, *notification)
	}
	if audit != nil {
		m.audits = append(m.audits, *audit)
	}
	return nil
}

func (m *mockAccessRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error) {
	if req, ok := m.requests[id]; ok {
		return req, nil
	}
	return nil, repository.ErrAccessRequestNotFound
}

func (m *mockAccessRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notification *models.Notification, audit *models.AuditEntry) error {
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrAccessRequestNotFound
	}
	req.Status = status
	if notification != nil {
		m.notifications = append(m.notifications, *notification)
	}
	if audit != nil {
		m.audits = append(m.audits, *audit)
	}
	return nil
}

func (m *mockAccessRepo) HasApproved(ctx context.Context, ideaID, investorID uuid.UUID) (bool, error) {
	for _, req := range m.requests {
		if req.IdeaID == ideaID && req.InvestorID == investorID && req.Status == models.AccessStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccessRepo) ListForFounder(ctx context.Context, founderID uuid.UUID) ([]models.AccessRequest, error) {
	var result []models.AccessRequest
	for _, req := range m.requests {
		result = append(result, *req)
	}
	return result, nil
}

func (m *mockAccessRepo) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.AccessRequest, error) {
	var result []models.AccessRequest
	for _, req := range m.requests {
		if req.InvestorID == investorID {
			result = append(result, *req)
		}
	}
	return result, nil
}

func newTestAccessService(repo *mockAccessRepo, ideas *mockIdeaRepo, users *mockUserDirectory) (*AccessService, *recordingWebhook) {
	hook := &recordingWebhook{}
	return NewAccessService(repo, ideas, users, hook, NewCacheService()), hook
}

func TestAccessService_Create_OnlyInvestor(t *testing.T) {
	founder := testFounder()
	svc, _ := newTestAccessService(newMockAccessRepo(), newMockIdeaRepo(), newMockUserDirectory(founder))

	_, err := svc.Create(context.Background(), founder.ID, models.RoleFounder, CreateAccessRequestInput{
		IdeaID:  uuid.New(),
		Message: "Хочу увидеть полную версию идеи",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAccessService_Create_MessageTooShort(t *testing.T) {
	investor := testInvestor()
	svc, _ := newTestAccessService(newMockAccessRepo(), newMockIdeaRepo(), newMockUserDirectory(investor))

	_, err := svc.Create(context.Background(), investor.ID, models.RoleInvestor, CreateAccessRequestInput{
		IdeaID:  uuid.New(),
		Message: "коротко",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAccessService_Create_NotifiesFounder(t *testing.T) {
	founder := testFounder()
	investor := testInvestor()

	repo := newMockAccessRepo()
	ideas := newMockIdeaRepo()
	ideaID := uuid.New()
	ideas.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID, Title: "Идея"}

	svc, hook := newTestAccessService(repo, ideas, newMockUserDirectory(founder, investor))

	req, err := svc.Create(context.Background(), investor.ID, models.RoleInvestor, CreateAccessRequestInput{
		IdeaID:      ideaID,
		Message:     "Интересует полный текст, рассматриваем сделку",
		NDARequired: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccessStatusPending, req.Status)
	assert.True(t, req.NDARequired)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, founder.ID, repo.notifications[0].UserID)
	assert.Equal(t, models.NotificationAccessRequest, repo.notifications[0].Type)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditAccessRequestCreated, repo.audits[0].Action)
	assert.Equal(t, []string{"access_request.created"}, hook.events)
}

func TestAccessService_Respond_Decisions(t *testing.T) {
	cases := []struct {
		decision         string
		notificationType string
	}{
		{models.AccessStatusApproved, models.NotificationAccessApproved},
		{models.AccessStatusRejected, models.NotificationAccessRejected},
		{models.AccessStatusMoreInfo, models.NotificationAccessMoreInfo},
	}

	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			founder := testFounder()
			investor := testInvestor()

			repo := newMockAccessRepo()
			ideas := newMockIdeaRepo()
			ideaID := uuid.New()
			ideas.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID, Title: "Идея"}

			reqID := uuid.New()
			repo.requests[reqID] = &models.AccessRequest{
				ID: reqID, IdeaID: ideaID, InvestorID: investor.ID, Status: models.AccessStatusPending,
			}

			svc, _ := newTestAccessService(repo, ideas, newMockUserDirectory(founder, investor))

			res, err := svc.Respond(context.Background(), reqID, founder.ID, tc.decision)
			require.NoError(t, err)
			assert.Equal(t, tc.decision, res.Status)

			require.Len(t, repo.notifications, 1)
			assert.Equal(t, investor.ID, repo.notifications[0].UserID)
			assert.Equal(t, tc.notificationType, repo.notifications[0].Type)
		})
	}
}

func TestAccessService_Respond_UnknownDecision(t *testing.T) {
	svc, _ := newTestAccessService(newMockAccessRepo(), newMockIdeaRepo(), newMockUserDirectory())

	_, err := svc.Respond(context.Background(), uuid.New(), uuid.New(), "maybe")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAccessService_Respond_OnlyIdeaFounder(t *testing.T) {
	founder := testFounder()
	other := testFounder()
	investor := testInvestor()

	repo := newMockAccessRepo()
	ideas := newMockIdeaRepo()
	ideaID := uuid.New()
	ideas.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID}

	reqID := uuid.New()
	repo.requests[reqID] = &models.AccessRequest{ID: reqID, IdeaID: ideaID, InvestorID: investor.ID, Status: models.AccessStatusPending}

	svc, _ := newTestAccessService(repo, ideas, newMockUserDirectory(founder, other, investor))

	_, err := svc.Respond(context.Background(), reqID, other.ID, models.AccessStatusApproved)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAccessService_Respond_TerminalStatusConflicts(t *testing.T) {
	founder := testFounder()
	investor := testInvestor()

	repo := newMockAccessRepo()
	ideas := newMockIdeaRepo()
	ideaID := uuid.New()
	ideas.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID}

	reqID := uuid.New()
	repo.requests[reqID] = &models.AccessRequest{ID: reqID, IdeaID: ideaID, InvestorID: investor.ID, Status: models.AccessStatusApproved}

	svc, _ := newTestAccessService(repo, ideas, newMockUserDirectory(founder, investor))

	_, err := svc.Respond(context.Background(), reqID, founder.ID, models.AccessStatusRejected)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestAccessService_Respond_MoreInfoAllowsSecondDecision(t *testing.T) {
	founder := testFounder()
	investor := testInvestor()

	repo := newMockAccessRepo()
	ideas := newMockIdeaRepo()
	ideaID := uuid.New()
	ideas.ideas[ideaID] = &models.Idea{ID: ideaID, FounderID: founder.ID}

	reqID := uuid.New()
	repo.requests[reqID] = &models.AccessRequest{ID: reqID, IdeaID: ideaID, InvestorID: investor.ID, Status: models.AccessStatusPending}

	svc, _ := newTestAccessService(repo, ideas, newMockUserDirectory(founder, investor))

	_, err := svc.Respond(context.Background(), reqID, founder.ID, models.AccessStatusMoreInfo)
	require.NoError(t, err)

	// more-info не конечный: основатель может принять решение позже
	res, err := svc.Respond(context.Background(), reqID, founder.ID, models.AccessStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.AccessStatusApproved, res.Status)

	// После одобрения гейт открывается
	approved, err := repo.HasApproved(context.Background(), ideaID, investor.ID)
	require.NoError(t, err)
	assert.True(t, approved)
}
