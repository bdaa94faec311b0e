package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/dto"
	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// AccessRequestHandler обслуживает маршруты запросов доступа.
type AccessRequestHandler struct {
	access *service.AccessService
}

// NewAccessRequestHandler создаёт хэндлер запросов доступа.
func NewAccessRequestHandler(access *service.AccessService) *AccessRequestHandler {
	return &AccessRequestHandler{access: access}
}

// CreateAccessRequest обрабатывает POST /access-requests.
func (h *AccessRequestHandler) CreateAccessRequest(c *gin.Context) {
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

	var req dto.CreateAccessRequestRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ideaID, err := uuid.Parse(req.IdeaID)
	if err != nil {
		common.RespondBadRequest(c, "idea_id должен быть валидным UUID")
		return
	}

	request, err := h.access.Create(c.Request.Context(), userID, role, service.CreateAccessRequestInput{
		IdeaID:      ideaID,
		Message:     req.Message,
		NDARequired: req.NDARequired,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// RespondToAccessRequest обрабатывает POST /access-requests/:id/respond.
func (h *AccessRequestHandler) RespondToAccessRequest(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.RespondAccessRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	request, err := h.access.Respond(c.Request.Context(), requestID, userID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListAccessRequests обрабатывает GET /access-requests.
func (h *AccessRequestHandler) ListAccessRequests(c *gin.Context) {
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

	requests, err := h.access.List(c.Request.Context(), userID, role)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, requests)
}
