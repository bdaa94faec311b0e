package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/venture-backend/internal/models"
)

// insertNotification добавляет уведомление в рамках открытой транзакции.
// Бизнес-запись и её уведомление всегда фиксируются атомарно.
func insertNotification(ctx context.Context, tx *sqlx.Tx, n *models.Notification) error {
	if n == nil {
		return nil
	}

	query := `
		INSERT INTO notifications (user_id, type, title, message, related_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := tx.QueryRowxContext(
		ctx, query,
		n.UserID, n.Type, n.Title, n.Message, n.RelatedID,
	).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification %w", err)
	}

	return nil
}

// insertAuditEntry добавляет запись аудита в рамках открытой транзакции.
func insertAuditEntry(ctx context.Context, tx *sqlx.Tx, e *models.AuditEntry) error {
	if e == nil {
		return nil
	}

	query := `
		INSERT INTO audit_log (action, actor, idea_id, user_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := tx.QueryRowxContext(
		ctx, query,
		e.Action, e.Actor, e.IdeaID, e.UserID, e.Details,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit entry %w", err)
	}

	return nil
}
