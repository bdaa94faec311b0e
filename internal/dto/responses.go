package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/models"
)

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents the result of register/login
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// IdeaResponse represents an idea projected through the access gate.
// Summary visibility withholds the full text fields and truncates
// the description; funding, equity and traction stay visible.
type IdeaResponse struct {
	Visibility       string    `json:"visibility"`
	ID               uuid.UUID `json:"id"`
	FounderID        uuid.UUID `json:"founder_id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	ProblemStatement *string   `json:"problem_statement,omitempty"`
	Solution         *string   `json:"solution,omitempty"`
	TargetMarket     *string   `json:"target_market,omitempty"`
	BusinessModel    *string   `json:"business_model,omitempty"`
	RequestedFunding float64   `json:"requested_funding"`
	EquityOffered    float64   `json:"equity_offered"`
	Traction         *string   `json:"traction,omitempty"`
	AIScore          *float64  `json:"ai_score,omitempty"`
	AISummary        *string   `json:"ai_summary,omitempty"`
	OriginalityScore *float64  `json:"originality_score,omitempty"`
	Published        bool      `json:"published"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewIdeaResponse builds the role-aware projection of an idea.
func NewIdeaResponse(idea *models.Idea, visibility string) *IdeaResponse {
	resp := &IdeaResponse{
		Visibility:       visibility,
		ID:               idea.ID,
		FounderID:        idea.FounderID,
		Title:            idea.Title,
		Category:         idea.Category,
		Description:      idea.Description,
		RequestedFunding: idea.RequestedFunding,
		EquityOffered:    idea.EquityOffered,
		Traction:         idea.Traction,
		AIScore:          idea.AIScore,
		OriginalityScore: idea.OriginalityScore,
		Published:        idea.Published,
		CreatedAt:        idea.CreatedAt,
		UpdatedAt:        idea.UpdatedAt,
	}

	if visibility == models.VisibilityFull {
		resp.ProblemStatement = &idea.ProblemStatement
		resp.Solution = &idea.Solution
		resp.TargetMarket = &idea.TargetMarket
		resp.BusinessModel = &idea.BusinessModel
		resp.AISummary = idea.AISummary
		return resp
	}

	resp.Description = truncateDescription(idea.Description, models.SummaryDescriptionLimit)
	return resp
}

// truncateDescription cuts the description to limit runes with an ellipsis.
func truncateDescription(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
