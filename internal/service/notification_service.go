package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/venture-backend/internal/models"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
// Записываются уведомления атомарно вместе с породившим их переходом,
// поэтому сервис отвечает только за чтение и отметки о прочтении.
type NotificationRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationService содержит бизнес-логику работы с уведомлениями.
type NotificationService struct {
	repo NotificationRepository
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListNotifications возвращает последние уведомления пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.List(ctx, userID)
}

// MarkAsRead отмечает уведомление как прочитанное.
// Чужое уведомление не находится и отдаёт NotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
