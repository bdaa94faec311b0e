package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProposalHandler_CreateProposal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.POST("/proposals", handler.CreateProposal)

	req, _ := http.NewRequest("POST", "/proposals", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_AcceptProposal_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.POST("/proposals/:id/accept", withAuthContext(uuid.New(), "founder"), handler.AcceptProposal)

	req, _ := http.NewRequest("POST", "/proposals/oops/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_CounterProposal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.POST("/proposals/:id/counter", handler.CounterProposal)

	req, _ := http.NewRequest("POST", "/proposals/"+uuid.NewString()+"/counter", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_ListProposals_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{proposals: nil}
	r.GET("/proposals", handler.ListProposals)

	req, _ := http.NewRequest("GET", "/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
