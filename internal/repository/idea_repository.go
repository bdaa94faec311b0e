package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/repository/common"
)

// ErrIdeaNotFound возвращается, когда идея не найдена.
var ErrIdeaNotFound = fmt.Errorf("idea not found: %w", common.ErrNotFound)

// IdeaRepository отвечает за работу с таблицей ideas.
type IdeaRepository struct {
	db *sqlx.DB
}

// NewIdeaRepository создаёт экземпляр репозитория.
func NewIdeaRepository(db *sqlx.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

// Create сохраняет идею вместе с записью аудита в одной транзакции.
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea, audit *models.AuditEntry) error {
	query := `
		INSERT INTO ideas (
			founder_id, title, category, description, problem_statement, solution,
			target_market, business_model, requested_funding, equity_offered, traction,
			ai_score, ai_summary, originality_score, embedding
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, published, created_at, updated_at
	`

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(
			ctx, query,
			idea.FounderID, idea.Title, idea.Category, idea.Description, idea.ProblemStatement,
			idea.Solution, idea.TargetMarket, idea.BusinessModel, idea.RequestedFunding,
			idea.EquityOffered, idea.Traction, idea.AIScore, idea.AISummary,
			idea.OriginalityScore, idea.Embedding,
		).Scan(&idea.ID, &idea.Published, &idea.CreatedAt, &idea.UpdatedAt); err != nil {
			return err
		}

		if audit != nil {
			audit.IdeaID = &idea.ID
		}
		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		return fmt.Errorf("idea repository: create %w", err)
	}

	return nil
}

// GetByID возвращает идею по идентификатору.
func (r *IdeaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	return common.GetByID[models.Idea](ctx, r.db, "ideas", id, ErrIdeaNotFound)
}

// Publish переводит идею в опубликованное состояние.
func (r *IdeaRepository) Publish(ctx context.Context, id uuid.UUID, audit *models.AuditEntry) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE ideas SET published = TRUE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrIdeaNotFound
		}

		return insertAuditEntry(ctx, tx, audit)
	})
	if err != nil {
		if errors.Is(err, ErrIdeaNotFound) {
			return ErrIdeaNotFound
		}
		return fmt.Errorf("idea repository: publish %w", err)
	}

	return nil
}

// ListByFounder возвращает идеи основателя, новые первыми.
func (r *IdeaRepository) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]models.Idea, error) {
	var ideas []models.Idea
	query := `SELECT * FROM ideas WHERE founder_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &ideas, query, founderID); err != nil {
		return nil, fmt.Errorf("idea repository: list by founder %w", err)
	}

	return ideas, nil
}

// ideaListRow строка выборки списка идей с аннотацией доступа зрителя.
type ideaListRow struct {
	ID               uuid.UUID      `db:"id"`
	Title            string         `db:"title"`
	Category         string         `db:"category"`
	Description      string         `db:"description"`
	RequestedFunding float64        `db:"requested_funding"`
	EquityOffered    float64        `db:"equity_offered"`
	Traction         *string        `db:"traction"`
	AIScore          *float64       `db:"ai_score"`
	Published        bool           `db:"published"`
	FounderID        uuid.UUID      `db:"founder_id"`
	FounderName      string         `db:"founder_name"`
	AccessStatus     sql.NullString `db:"access_status"`
	CreatedAt        sql.NullTime   `db:"created_at"`
}

// ListPublished возвращает опубликованные идеи вместе со статусом последнего
// запроса доступа зрителя. Идеи самого зрителя не скрываются.
func (r *IdeaRepository) ListPublished(ctx context.Context, viewerID uuid.UUID) ([]models.IdeaListItem, error) {
	query := `
		SELECT i.id, i.title, i.category, i.description, i.requested_funding,
		       i.equity_offered, i.traction, i.ai_score, i.published,
		       i.founder_id, u.name AS founder_name, i.created_at,
		       (
		           SELECT ar.status FROM access_requests ar
		           WHERE ar.idea_id = i.id AND ar.investor_id = $1
		           ORDER BY ar.created_at DESC
		           LIMIT 1
		       ) AS access_status
		FROM ideas i
		JOIN users u ON u.id = i.founder_id
		WHERE i.published
		ORDER BY i.created_at DESC
	`

	var rows []ideaListRow
	if err := r.db.SelectContext(ctx, &rows, query, viewerID); err != nil {
		return nil, fmt.Errorf("idea repository: list published %w", err)
	}

	items := make([]models.IdeaListItem, 0, len(rows))
	for _, row := range rows {
		item := models.IdeaListItem{
			ID:               row.ID,
			Title:            row.Title,
			Category:         row.Category,
			Description:      row.Description,
			RequestedFunding: row.RequestedFunding,
			EquityOffered:    row.EquityOffered,
			Traction:         row.Traction,
			AIScore:          row.AIScore,
			Published:        row.Published,
			FounderID:        row.FounderID,
			FounderName:      row.FounderName,
			CreatedAt:        row.CreatedAt.Time,
		}
		if row.AccessStatus.Valid {
			item.AccessStatus = row.AccessStatus.String
		}
		items = append(items, item)
	}

	return items, nil
}

// FounderIdeaStats считает идеи основателя для дашборда одним запросом.
func (r *IdeaRepository) FounderIdeaStats(ctx context.Context, founderID uuid.UUID) (total, validated, published int, err error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE ai_score IS NOT NULL) AS validated,
		       COUNT(*) FILTER (WHERE published) AS published
		FROM ideas
		WHERE founder_id = $1
	`

	row := struct {
		Total     int `db:"total"`
		Validated int `db:"validated"`
		Published int `db:"published"`
	}{}
	if err = r.db.GetContext(ctx, &row, query, founderID); err != nil {
		return 0, 0, 0, fmt.Errorf("idea repository: founder stats %w", err)
	}

	return row.Total, row.Validated, row.Published, nil
}

// ListAuditTrail возвращает журнал действий по идее, новые первыми.
func (r *IdeaRepository) ListAuditTrail(ctx context.Context, ideaID uuid.UUID) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	query := `SELECT * FROM audit_log WHERE idea_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &entries, query, ideaID); err != nil {
		return nil, fmt.Errorf("idea repository: list audit trail %w", err)
	}

	return entries, nil
}
