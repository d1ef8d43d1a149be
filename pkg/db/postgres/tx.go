package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"threadnotes/pkg/logger"
)

// Константы для сообщений об ошибках транзакций.
const (
	ErrBeginTx  = "failed to begin transaction"
	ErrCommitTx = "failed to commit transaction"
)

// TxBeginner реализуется *pgxpool.Pool, pgx.Conn и pgxmock.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunInTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию и возвращается
// без изменений, чтобы вызывающий мог сравнить ее через errors.Is/As.
func RunInTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrBeginTx, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Log(ctx).Error(ctx, "failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrCommitTx, err)
	}
	return nil
}
