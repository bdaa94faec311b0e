package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetByID - универсальная функция для получения сущности по ID
// Устраняет дубликаты кода GetByID во всех репозиториях
func GetByID[T any](ctx context.Context, db *sqlx.DB, table string, id interface{}, notFoundErr error) (*T, error) {
	var entity T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)

	if err := db.GetContext(ctx, &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, fmt.Errorf("get by id from %s: %w", table, err)
	}

	return &entity, nil
}

// CountWhere возвращает количество строк таблицы по условию.
// Дашборд собирается из таких подсчётов, поэтому хелпер общий.
func CountWhere(ctx context.Context, db *sqlx.DB, table, where string, args ...interface{}) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where)

	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count from %s: %w", table, err)
	}

	return count, nil
}

// WithTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок.
// Каждая пара (мутация сущности + запись уведомления/журнала) проходит через неё.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			// При панике откатываем транзакцию
			_ = tx.Rollback()
			panic(p) // re-throw panic after rollback
		}
	}()

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
