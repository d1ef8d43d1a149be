package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"threadnotes/internal/notes/ports/repositories"
)

// PgxPoolInterface - подмножество *pgxpool.Pool, которое нужно репозиториям.
// Ему также удовлетворяет pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RepositoryFactory создает репозитории для работы с базой данных.
type RepositoryFactory struct {
	pool PgxPoolInterface
	opts []Option
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface, opts ...Option) *RepositoryFactory {
	return &RepositoryFactory{pool: pool, opts: opts}
}

// NoteStore возвращает хранилище заметок.
func (f *RepositoryFactory) NoteStore() repositories.NoteStore {
	return NewNoteRepository(f.pool, f.opts...)
}
