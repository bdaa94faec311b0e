package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/repository/common"
)

// ErrNotificationNotFound возвращается, когда уведомление не найдено.
var ErrNotificationNotFound = fmt.Errorf("notification not found: %w", common.ErrNotFound)

// NotificationListLimit максимум уведомлений в одной выборке.
const NotificationListLimit = 50

// NotificationRepository отвечает за чтение уведомлений и отметки о прочтении.
// Создаются уведомления только внутри транзакций доменных репозиториев.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository создаёт экземпляр репозитория.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List возвращает последние уведомления пользователя.
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &notifications, query, userID, NotificationListLimit); err != nil {
		return nil, fmt.Errorf("notification repository: list %w", err)
	}

	return notifications, nil
}

// MarkAsRead отмечает уведомление пользователя прочитанным.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("notification repository: mark as read %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("notification repository: mark as read %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// MarkAllAsRead отмечает все уведомления пользователя прочитанными.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID); err != nil {
		return fmt.Errorf("notification repository: mark all as read %w", err)
	}
	return nil
}

// CountUnread возвращает число непрочитанных уведомлений пользователя.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID); err != nil {
		return 0, fmt.Errorf("notification repository: count unread %w", err)
	}

	return count, nil
}
