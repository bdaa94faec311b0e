package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/venture-backend/internal/dto"
	"github.com/ignatzorin/venture-backend/internal/http/handlers/common"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}, requestMeta(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   result.User,
		"tokens": result.TokenPair,
	})
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Me обрабатывает GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		common.RespondNotFound(c, "пользователь не найден")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListSessions обрабатывает GET /auth/sessions.
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	sessions, err := h.auth.ListSessions(c.Request.Context(), userID)
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// DeleteSession обрабатывает DELETE /auth/sessions/:id.
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	sessionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.DeleteSession(c.Request.Context(), sessionID, userID); err != nil {
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "сессия удалена", nil)
}

// DeleteAllSessionsExcept обрабатывает DELETE /auth/sessions - удаление всех сессий кроме текущей.
func (h *AuthHandler) DeleteAllSessionsExcept(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	// Получаем refresh токен из body либо из заголовка
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.RefreshToken = c.GetHeader("X-Refresh-Token")
		if req.RefreshToken == "" {
			common.RespondBadRequest(c, "refresh_token обязателен")
			return
		}
	}

	if err := h.auth.DeleteAllSessionsExcept(c.Request.Context(), userID, req.RefreshToken); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondSuccess(c, http.StatusOK, "все сессии кроме текущей удалены", nil)
}

// requestMeta собирает user-agent и IP запроса для записи сессии.
func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}
