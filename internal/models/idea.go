package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Idea описывает заявку основателя на стартап-идею.
// Полные текстовые поля скрыты от инвесторов до одобрения запроса доступа.
type Idea struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	FounderID        uuid.UUID       `db:"founder_id" json:"founder_id"`
	Title            string          `db:"title" json:"title"`
	Category         string          `db:"category" json:"category"`
	Description      string          `db:"description" json:"description"`
	ProblemStatement string          `db:"problem_statement" json:"problem_statement"`
	Solution         string          `db:"solution" json:"solution"`
	TargetMarket     string          `db:"target_market" json:"target_market"`
	BusinessModel    string          `db:"business_model" json:"business_model"`
	RequestedFunding float64         `db:"requested_funding" json:"requested_funding"`
	EquityOffered    float64         `db:"equity_offered" json:"equity_offered"`
	Traction         *string         `db:"traction" json:"traction,omitempty"`
	AIScore          *float64        `db:"ai_score" json:"ai_score,omitempty"`
	AISummary        *string         `db:"ai_summary" json:"ai_summary,omitempty"`
	OriginalityScore *float64        `db:"originality_score" json:"originality_score,omitempty"`
	Embedding        json.RawMessage `db:"embedding" json:"-"`
	Published        bool            `db:"published" json:"published"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// IdeaValidation результат AI-оценки идеи.
// При недоступности провайдера сервис подставляет нейтральный fallback.
type IdeaValidation struct {
	Score            float64         `json:"score"`
	Summary          string          `json:"summary"`
	OriginalityScore float64         `json:"originality_score"`
	Embedding        json.RawMessage `json:"-"`
}

// Visibility значения проекции идеи для конкретного зрителя.
const (
	VisibilitySummary = "summary"
	VisibilityFull    = "full"
)

// SummaryDescriptionLimit длина префикса описания в summary-проекции.
const SummaryDescriptionLimit = 100

// ListDescriptionLimit длина префикса описания в списках.
const ListDescriptionLimit = 150

// IdeaListItem элемент списка идей с аннотацией статуса доступа зрителя.
type IdeaListItem struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	RequestedFunding float64   `json:"requested_funding"`
	EquityOffered    float64   `json:"equity_offered"`
	Traction         *string   `json:"traction,omitempty"`
	AIScore          *float64  `json:"ai_score,omitempty"`
	Published        bool      `json:"published"`
	FounderID        uuid.UUID `json:"founder_id"`
	FounderName      string    `json:"founder_name"`
	AccessStatus     string    `json:"access_status"`
	HasAccess        bool      `json:"has_access"`
	CreatedAt        time.Time `json:"created_at"`
}
