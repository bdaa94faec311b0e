package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessRequest описывает запрос инвестора на полный доступ к идее.
// Одобренный запрос является неявным и бессрочным разрешением: отдельной
// записи о гранте не создаётся, гейт каждый раз сверяется со статусом.
type AccessRequest struct {
	ID          uuid.UUID `db:"id" json:"id"`
	IdeaID      uuid.UUID `db:"idea_id" json:"idea_id"`
	InvestorID  uuid.UUID `db:"investor_id" json:"investor_id"`
	Message     string    `db:"message" json:"message"`
	NDARequired bool      `db:"nda_required" json:"nda_required"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Денормализованные поля для списков.
	IdeaTitle     *string `db:"idea_title" json:"idea_title,omitempty"`
	InvestorName  *string `db:"investor_name" json:"investor_name,omitempty"`
	InvestorEmail *string `db:"investor_email" json:"investor_email,omitempty"`
}
