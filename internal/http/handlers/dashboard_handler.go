package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// DashboardHandler обслуживает агрегированные метрики дашборда.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler создаёт хэндлер дашборда.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetMetrics обрабатывает GET /dashboard/:role.
// Метрики считаются для роли из пути, но только если она совпадает
// с ролью вызывающего из токена.
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	callerRole, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	role := c.Param("role")
	if role != callerRole {
		common.RespondForbidden(c, "метрики доступны только для собственной роли")
		return
	}

	metrics, err := h.dashboard.Metrics(c.Request.Context(), userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
