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

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = fmt.Errorf("user not found: %w", common.ErrNotFound)

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, password_hash, role, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, password_hash, role, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpdateLastLoginAt отмечает время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}

// CreateSession сохраняет refresh сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// GetSessionByToken возвращает сессию по refresh токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	if err := r.db.GetContext(ctx, &session, `SELECT * FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get session %w", err)
	}

	return &session, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// ListSessions возвращает активные сессии пользователя.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	query := `SELECT * FROM user_sessions WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("user repository: list sessions %w", err)
	}

	return sessions, nil
}

// DeleteSessionByID удаляет конкретную сессию пользователя.
func (r *UserRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`, sessionID, userID); err != nil {
		return fmt.Errorf("user repository: delete session by id %w", err)
	}
	return nil
}

// DeleteAllSessionsExcept удаляет все сессии пользователя, кроме текущей.
func (r *UserRepository) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1 AND refresh_token <> $2`, userID, exceptRefreshToken); err != nil {
		return fmt.Errorf("user repository: delete all sessions %w", err)
	}
	return nil
}
