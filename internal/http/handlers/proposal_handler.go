package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/dto"
	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// ProposalHandler обслуживает маршруты инвестиционных предложений.
type ProposalHandler struct {
	proposals *service.ProposalService
}

// NewProposalHandler создаёт хэндлер предложений.
func NewProposalHandler(proposals *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// CreateProposal обрабатывает POST /proposals.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ideaID, err := uuid.Parse(req.IdeaID)
	if err != nil {
		common.RespondBadRequest(c, "idea_id должен быть валидным UUID")
		return
	}

	proposal, err := h.proposals.Create(c.Request.Context(), userID, role, ideaID, service.ProposalTerms{
		FundingAmount:  req.FundingAmount,
		EquityOffer:    req.EquityOffer,
		Milestones:     toMilestones(req.Milestones),
		TermSheetNotes: req.TermSheetNotes,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// AcceptProposal обрабатывает POST /proposals/:id/accept.
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	h.resolve(c, h.proposals.Accept)
}

// RejectProposal обрабатывает POST /proposals/:id/reject.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	h.resolve(c, h.proposals.Reject)
}

// CounterProposal обрабатывает POST /proposals/:id/counter.
// Условия заменяются целиком, статус становится countered.
func (h *ProposalHandler) CounterProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CounterProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposals.Counter(c.Request.Context(), proposalID, userID, service.ProposalTerms{
		FundingAmount:  req.FundingAmount,
		EquityOffer:    req.EquityOffer,
		Milestones:     toMilestones(req.Milestones),
		TermSheetNotes: req.TermSheetNotes,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// ListProposals обрабатывает GET /proposals.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposals, err := h.proposals.List(c.Request.Context(), userID, role)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// resolve выполняет общий путь accept/reject.
func (h *ProposalHandler) resolve(
	c *gin.Context,
	action func(ctx context.Context, proposalID, callerID uuid.UUID) (*models.Proposal, error),
) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := action(c.Request.Context(), proposalID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// toMilestones конвертирует транши запроса в доменную модель.
func toMilestones(in []dto.MilestoneRequest) models.Milestones {
	milestones := make(models.Milestones, 0, len(in))
	for _, m := range in {
		milestones = append(milestones, models.Milestone{
			Description: m.Description,
			Amount:      m.Amount,
			Deadline:    m.Deadline,
		})
	}
	return milestones
}
