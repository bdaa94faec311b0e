package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/venture-backend/internal/http/middleware"
)

// withAuthContext подставляет userID и роль, как это делает AuthMiddleware.
func withAuthContext(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func TestIdeaHandler_CreateIdea_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &IdeaHandler{ideas: nil}
	r.POST("/ideas", handler.CreateIdea)

	req, _ := http.NewRequest("POST", "/ideas", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdeaHandler_GetIdea_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &IdeaHandler{ideas: nil}
	r.GET("/ideas/:id", handler.GetIdea)

	req, _ := http.NewRequest("GET", "/ideas/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdeaHandler_GetIdea_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &IdeaHandler{ideas: nil}
	r.GET("/ideas/:id", withAuthContext(uuid.New(), "investor"), handler.GetIdea)

	req, _ := http.NewRequest("GET", "/ideas/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdeaHandler_PublishIdea_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &IdeaHandler{ideas: nil}
	r.POST("/ideas/:id/publish", withAuthContext(uuid.New(), "founder"), handler.PublishIdea)

	req, _ := http.NewRequest("POST", "/ideas/bad/publish", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdeaHandler_GetAuditTrail_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &IdeaHandler{ideas: nil}
	r.GET("/ideas/:id/audit", handler.GetAuditTrail)

	req, _ := http.NewRequest("GET", "/ideas/"+uuid.NewString()+"/audit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
