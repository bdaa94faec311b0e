package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification описывает уведомление для пользователя.
// Создаётся системой как побочный эффект переходов по запросам доступа и
// предложениям; изменяется только флаг прочтения.
type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Type      string     `db:"type" json:"type"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	RelatedID *uuid.UUID `db:"related_id" json:"related_id,omitempty"`
	IsRead    bool       `db:"is_read" json:"is_read"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
