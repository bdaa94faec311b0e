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

// ErrAccessRequestNotFound возвращается, когда запрос доступа не найден.
var ErrAccessRequestNotFound = fmt.Errorf("access request not found: %w", common.ErrNotFound)

// AccessRequestRepository отвечает за работу с таблицей access_requests.
type AccessRequestRepository struct {
	db *sqlx.DB
}

// NewAccessRequestRepository создаёт экземпляр репозитория.
func NewAccessRequestRepository(db *sqlx.DB) *AccessRequestRepository {
	return &AccessRequestRepository{db: db}
}

// Create сохраняет запрос доступа, уведомление основателю и запись аудита
// в одной транзакции.
func (r *AccessRequestRepository) Create(
	ctx context.Context,
	req *models.AccessRequest,
	notification *models.Notification,
	audit *models.AuditEntry,
) error {
	query := `
		INSERT INTO access_requests (idea_id, investor_id, message, nda_required)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at
	`

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(
			ctx, query,
			req.IdeaID, req.InvestorID, req.Message, req.NDARequired,
		).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return err
		}

		if notification != nil {
			notification.RelatedID = &req.ID
		}
		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		return fmt.Errorf("access request repository: create %w", err)
	}

	return nil
}

// GetByID возвращает запрос доступа по идентификатору.
func (r *AccessRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AccessRequest, error) {
	return common.GetByID[models.AccessRequest](ctx, r.db, "access_requests", id, ErrAccessRequestNotFound)
}

// UpdateStatus выставляет решение основателя и фиксирует уведомление
// инвестору вместе с записью аудита в одной транзакции.
func (r *AccessRequestRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status string,
	notification *models.Notification,
	audit *models.AuditEntry,
) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE access_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAccessRequestNotFound
		}

		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		if errors.Is(err, ErrAccessRequestNotFound) {
			return ErrAccessRequestNotFound
		}
		return fmt.Errorf("access request repository: update status %w", err)
	}

	return nil
}

// HasApproved проверяет, есть ли у инвестора одобренный запрос по идее.
func (r *AccessRequestRepository) HasApproved(ctx context.Context, ideaID, investorID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM access_requests
			WHERE idea_id = $1 AND investor_id = $2 AND status = $3
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, ideaID, investorID, models.AccessStatusApproved); err != nil {
		return false, fmt.Errorf("access request repository: has approved %w", err)
	}

	return exists, nil
}

// ListForFounder возвращает запросы по всем идеям основателя.
func (r *AccessRequestRepository) ListForFounder(ctx context.Context, founderID uuid.UUID) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	query := `
		SELECT ar.*, i.title AS idea_title, u.name AS investor_name, u.email AS investor_email
		FROM access_requests ar
		JOIN ideas i ON i.id = ar.idea_id
		JOIN users u ON u.id = ar.investor_id
		WHERE i.founder_id = $1
		ORDER BY ar.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &requests, query, founderID); err != nil {
		return nil, fmt.Errorf("access request repository: list for founder %w", err)
	}

	return requests, nil
}

// ListByInvestor возвращает запросы, отправленные инвестором.
func (r *AccessRequestRepository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	query := `
		SELECT ar.*, i.title AS idea_title
		FROM access_requests ar
		JOIN ideas i ON i.id = ar.idea_id
		WHERE ar.investor_id = $1
		ORDER BY ar.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &requests, query, investorID); err != nil {
		return nil, fmt.Errorf("access request repository: list by investor %w", err)
	}

	return requests, nil
}

// CountApprovedForFounder считает одобренные запросы по идеям основателя.
func (r *AccessRequestRepository) CountApprovedForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM access_requests ar
		JOIN ideas i ON i.id = ar.idea_id
		WHERE i.founder_id = $1 AND ar.status = $2
	`
	if err := r.db.GetContext(ctx, &count, query, founderID, models.AccessStatusApproved); err != nil {
		return 0, fmt.Errorf("access request repository: count approved for founder %w", err)
	}

	return count, nil
}

// CountPendingForFounder считает необработанные запросы по идеям основателя.
func (r *AccessRequestRepository) CountPendingForFounder(ctx context.Context, founderID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM access_requests ar
		JOIN ideas i ON i.id = ar.idea_id
		WHERE i.founder_id = $1 AND ar.status = $2
	`
	if err := r.db.GetContext(ctx, &count, query, founderID, models.AccessStatusPending); err != nil {
		return 0, fmt.Errorf("access request repository: count pending for founder %w", err)
	}

	return count, nil
}

// InvestorRequestStats считает запросы инвестора для дашборда.
func (r *AccessRequestRepository) InvestorRequestStats(ctx context.Context, investorID uuid.UUID) (sent, approved int, err error) {
	query := `
		SELECT COUNT(*) AS sent,
		       COUNT(*) FILTER (WHERE status = 'approved') AS approved
		FROM access_requests
		WHERE investor_id = $1
	`

	row := struct {
		Sent     int `db:"sent"`
		Approved int `db:"approved"`
	}{}
	if err = r.db.GetContext(ctx, &row, query, investorID); err != nil {
		return 0, 0, fmt.Errorf("access request repository: investor stats %w", err)
	}

	return row.Sent, row.Approved, nil
}
