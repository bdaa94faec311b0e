package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/venture-backend/internal/config"
	"github.com/ignatzorin/venture-backend/internal/http/handlers"
	"github.com/ignatzorin/venture-backend/internal/service"
)

// Собирает роутер с пустыми обработчиками: до сервисов запросы не доходят,
// middleware аутентификации отвечает раньше.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:             "development",
		AllowedOrigins:  []string{"*"},
		RateLimitLimit:  100,
		RateLimitPeriod: time.Minute,
	}
	tokenManager := service.NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	return SetupRouter(
		cfg,
		handlers.NewAuthHandler(nil),
		handlers.NewIdeaHandler(nil),
		handlers.NewAccessRequestHandler(nil),
		handlers.NewProposalHandler(nil),
		handlers.NewNotificationHandler(nil),
		handlers.NewDashboardHandler(nil),
		handlers.NewHealthHandler(nil),
		tokenManager,
	)
}

func TestRouter_NotificationReadRoutesUsePost(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{
		"/api/notifications/9f4f0c1e-3b49-4e93-9d3c-5a3f0e1d2b11/read",
		"/api/notifications/read-all",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		r.ServeHTTP(w, req)
		// Маршрут зарегистрирован: без токена получаем 401, а не 404.
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPut, path, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
