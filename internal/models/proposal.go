package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Milestone описывает транш финансирования внутри предложения.
// Список принадлежит предложению целиком и заменяется при каждом контроффере.
type Milestone struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Deadline    string    `json:"deadline"`
}

// Milestones хранится в одной jsonb колонке, порядок задаёт вызывающая сторона.
type Milestones []Milestone

// Value сериализует список в jsonb.
func (m Milestones) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

// Scan читает список из jsonb.
func (m *Milestones) Scan(src interface{}) error {
	if src == nil {
		*m = Milestones{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("milestones: неподдерживаемый тип %T", src)
	}

	return json.Unmarshal(data, m)
}

// Proposal представляет инвестиционное предложение по идее.
type Proposal struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	IdeaID         uuid.UUID  `db:"idea_id" json:"idea_id"`
	InvestorID     uuid.UUID  `db:"investor_id" json:"investor_id"`
	FounderID      uuid.UUID  `db:"founder_id" json:"founder_id"`
	FundingAmount  float64    `db:"funding_amount" json:"funding_amount"`
	EquityOffer    float64    `db:"equity_offer" json:"equity_offer"`
	Milestones     Milestones `db:"milestones" json:"milestones"`
	TermSheetNotes *string    `db:"term_sheet_notes" json:"term_sheet_notes,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	// Денормализованные поля для списков.
	IdeaTitle    *string `db:"idea_title" json:"idea_title,omitempty"`
	InvestorName *string `db:"investor_name" json:"investor_name,omitempty"`
	FounderName  *string `db:"founder_name" json:"founder_name,omitempty"`
}

// IsTerminal возвращает true для конечных статусов предложения.
func (p *Proposal) IsTerminal() bool {
	return p.Status == ProposalStatusAccepted || p.Status == ProposalStatusRejected
}
