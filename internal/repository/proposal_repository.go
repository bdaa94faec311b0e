package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/repository/common"
)

// ErrProposalNotFound возвращается, когда предложение не найдено.
var ErrProposalNotFound = fmt.Errorf("proposal not found: %w", common.ErrNotFound)

// ProposalRepository отвечает за работу с таблицей proposals.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр репозитория.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create сохраняет предложение, уведомление основателю и запись аудита
// в одной транзакции.
func (r *ProposalRepository) Create(
	ctx context.Context,
	proposal *models.Proposal,
	notification *models.Notification,
	audit *models.AuditEntry,
) error {
	query := `
		INSERT INTO proposals (
			idea_id, investor_id, founder_id, funding_amount, equity_offer,
			milestones, term_sheet_notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(
			ctx, query,
			proposal.IdeaID, proposal.InvestorID, proposal.FounderID,
			proposal.FundingAmount, proposal.EquityOffer, proposal.Milestones,
			proposal.TermSheetNotes,
		).Scan(&proposal.ID, &proposal.Status, &proposal.CreatedAt, &proposal.UpdatedAt); err != nil {
			return err
		}

		if notification != nil {
			notification.RelatedID = &proposal.ID
		}
		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// GetByID возвращает предложение по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return common.GetByID[models.Proposal](ctx, r.db, "proposals", id, ErrProposalNotFound)
}

// UpdateStatus выставляет новый статус предложения и фиксирует уведомление
// второй стороне вместе с записью аудита в одной транзакции.
func (r *ProposalRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	notification *models.Notification,
	audit *models.AuditEntry,
) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE proposals SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProposalNotFound
		}

		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		if errors.Is(err, ErrProposalNotFound) {
			return ErrProposalNotFound
		}
		return fmt.Errorf("proposal repository: update status %w", err)
	}

	return nil
}

// UpdateTerms целиком заменяет условия предложения контроффером основателя.
// Прежние условия не сохраняются, история переговоров остаётся в аудите.
func (r *ProposalRepository) UpdateTerms(
	ctx context.Context,
	proposal *models.Proposal,
	notification *models.Notification,
	audit *models.AuditEntry,
) error {
	query := `
		UPDATE proposals
		SET funding_amount = $2, equity_offer = $3, milestones = $4,
		    term_sheet_notes = $5, status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(
			ctx, query,
			proposal.ID, proposal.FundingAmount, proposal.EquityOffer,
			proposal.Milestones, proposal.TermSheetNotes, proposal.Status,
		).Scan(&proposal.UpdatedAt); err != nil {
			return err
		}

		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		return fmt.Errorf("proposal repository: update terms %w", err)
	}

	return nil
}

// ListByFounder возвращает предложения, адресованные основателю.
func (r *ProposalRepository) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	query := `
		SELECT p.*, i.title AS idea_title, u.name AS investor_name
		FROM proposals p
		JOIN ideas i ON i.id = p.idea_id
		JOIN users u ON u.id = p.investor_id
		WHERE p.founder_id = $1
		ORDER BY p.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &proposals, query, founderID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by founder %w", err)
	}

	return proposals, nil
}

// ListByInvestor возвращает предложения, отправленные инвестором.
func (r *ProposalRepository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	query := `
		SELECT p.*, i.title AS idea_title, u.name AS founder_name
		FROM proposals p
		JOIN ideas i ON i.id = p.idea_id
		JOIN users u ON u.id = p.founder_id
		WHERE p.investor_id = $1
		ORDER BY p.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &proposals, query, investorID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by investor %w", err)
	}

	return proposals, nil
}

// InvestorProposalStats считает предложения инвестора для дашборда.
func (r *ProposalRepository) InvestorProposalStats(ctx context.Context, investorID uuid.UUID) (sent, accepted int, err error) {
	query := `
		SELECT COUNT(*) AS sent,
		       COUNT(*) FILTER (WHERE status = 'accepted') AS accepted
		FROM proposals
		WHERE investor_id = $1
	`

	row := struct {
		Sent     int `db:"sent"`
		Accepted int `db:"accepted"`
	}{}
	if err = r.db.GetContext(ctx, &row, query, investorID); err != nil {
		return 0, 0, fmt.Errorf("proposal repository: investor stats %w", err)
	}

	return row.Sent, row.Accepted, nil
}

// CountReceivedForFounder считает предложения, полученные основателем.
func (r *ProposalRepository) CountReceivedForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	return common.CountWhere(ctx, r.db, "proposals", "founder_id = $1", founderID)
}
