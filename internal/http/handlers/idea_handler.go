package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/venture-backend/internal/dto"
	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// IdeaHandler обслуживает маршруты идей.
type IdeaHandler struct {
	ideas *service.IdeaService
}

// NewIdeaHandler создаёт хэндлер идей.
func NewIdeaHandler(ideas *service.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

// CreateIdea обрабатывает POST /ideas.
// Оценка AI выполняется синхронно, идея возвращается с заполненными баллами.
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
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

	var req dto.CreateIdeaRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	idea, err := h.ideas.Create(c.Request.Context(), userID, role, service.CreateIdeaInput{
		Title:            req.Title,
		Category:         req.Category,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		Solution:         req.Solution,
		TargetMarket:     req.TargetMarket,
		BusinessModel:    req.BusinessModel,
		RequestedFunding: req.RequestedFunding,
		EquityOffered:    req.EquityOffered,
		Traction:         req.Traction,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewIdeaResponse(idea, models.VisibilityFull))
}

// GetIdea обрабатывает GET /ideas/:id.
// Проекция зависит от зрителя: владелец, одобренный инвестор и любой
// зритель опубликованной идеи видят полную версию.
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	ideaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	idea, visibility, err := h.ideas.Get(c.Request.Context(), ideaID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIdeaResponse(idea, visibility))
}

// ListIdeas обрабатывает GET /ideas.
// Основатель видит свои идеи целиком, инвестор — каталог опубликованных
// с аннотацией статуса своего доступа.
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
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

	if role == models.RoleFounder {
		ideas, err := h.ideas.ListForFounder(c.Request.Context(), userID)
		if err != nil {
			common.RespondInternalError(c, "")
			return
		}
		c.JSON(http.StatusOK, ideas)
		return
	}

	items, err := h.ideas.ListPublished(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, items)
}

// PublishIdea обрабатывает POST /ideas/:id/publish.
func (h *IdeaHandler) PublishIdea(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	ideaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	idea, err := h.ideas.Publish(c.Request.Context(), ideaID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIdeaResponse(idea, models.VisibilityFull))
}

// GetAuditTrail обрабатывает GET /ideas/:id/audit.
func (h *IdeaHandler) GetAuditTrail(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	ideaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	entries, err := h.ideas.AuditTrail(c.Request.Context(), ideaID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
