// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"threadnotes/internal/notes/domain/entities"
	"threadnotes/internal/notes/ports/repositories"
	dbpostgres "threadnotes/pkg/db/postgres"
	"threadnotes/pkg/logger"
)

// is_pinned допускает NULL, поэтому везде читается через COALESCE.
const (
	noteColumns  = `id, user_id, thread_id, content, color, COALESCE(is_pinned, FALSE), sort_order, created_at, updated_at`
	notesOrderBy = `ORDER BY COALESCE(is_pinned, FALSE) DESC, sort_order ASC, created_at DESC`
)

const (
	queryListByUser   = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ` + notesOrderBy
	queryListByThread = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 AND thread_id = $2 ` + notesOrderBy
	queryGetNote      = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`

	queryLockUserNotes = `SELECT pg_advisory_xact_lock(hashtext($1))`
	queryNextOrder     = `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM notes WHERE user_id = $1`
	queryInsertNote    = `INSERT INTO notes (id, user_id, thread_id, content, color, is_pinned, sort_order, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING ` + noteColumns

	queryDeleteNote = `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	queryLockOwnedNotes = `SELECT id FROM notes WHERE user_id = $1 AND id = ANY($2) FOR UPDATE`
	queryReorderNote    = `UPDATE notes SET sort_order = $1, is_pinned = COALESCE($2, is_pinned), updated_at = $3 WHERE id = $4 AND user_id = $5`
)

// Option настраивает NoteRepository.
type Option func(*NoteRepository)

// WithClock подменяет источник времени для created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *NoteRepository) {
		r.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов заметок.
func WithIDGenerator(newID func() string) Option {
	return func(r *NoteRepository) {
		r.newID = newID
	}
}

// NoteRepository реализует интерфейс repositories.NoteStore.
type NoteRepository struct {
	pool  PgxPoolInterface
	now   func() time.Time
	newID func() string
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface, opts ...Option) repositories.NoteStore {
	r := &NoteRepository{
		pool: pool,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.ThreadID,
		&note.Content,
		&note.Color,
		&note.IsPinned,
		&note.Order,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List возвращает все заметки пользователя: закрепленные первыми, затем по order, затем новые выше.
func (r *NoteRepository) List(ctx context.Context, userID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes", zap.String("userID", userID))

	return r.queryNotes(ctx, log, queryListByUser, userID)
}

// ListByThread возвращает заметки пользователя в треде в том же порядке, что и List.
func (r *NoteRepository) ListByThread(ctx context.Context, userID, threadID string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByThread"))
	log.Debug(ctx, "listing thread notes", zap.String("userID", userID), zap.String("threadID", threadID))

	return r.queryNotes(ctx, log, queryListByThread, userID, threadID)
}

func (r *NoteRepository) queryNotes(ctx context.Context, log *logger.Logger, query string, args ...any) ([]*entities.Note, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	log.Debug(ctx, "notes listed", zap.Int("count", len(notes)))
	return notes, nil
}

// Get получает заметку по ID и ID пользователя.
func (r *NoteRepository) Get(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Get"))
	log.Debug(ctx, "getting note", zap.String("noteID", noteID), zap.String("userID", userID))

	note, err := scanNote(r.pool.QueryRow(ctx, queryGetNote, noteID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFoundOrNotOwned
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// Create сохраняет новую заметку в конец списка пользователя.
// Порядок вычисляется под advisory-блокировкой пользователя, поэтому параллельные
// вызовы для одного пользователя не получают одинаковый order.
func (r *NoteRepository) Create(ctx context.Context, params entities.CreateNoteParams) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", params.UserID), zap.String("threadID", params.ThreadID))

	noteID := r.newID()
	now := r.now()

	var created *entities.Note
	err := dbpostgres.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryLockUserNotes, params.UserID); err != nil {
			return fmt.Errorf("failed to lock user notes: %w", err)
		}

		var nextOrder int
		if err := tx.QueryRow(ctx, queryNextOrder, params.UserID).Scan(&nextOrder); err != nil {
			return fmt.Errorf("failed to compute next order: %w", err)
		}

		note, err := scanNote(tx.QueryRow(ctx, queryInsertNote,
			noteID, params.UserID, params.ThreadID, params.Content, params.ColorOrDefault(),
			params.IsPinned, nextOrder, now, now,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrCreateFailed
			}
			return fmt.Errorf("%w: %w", entities.ErrCreateFailed, err)
		}

		created = note
		return nil
	})
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		if errors.Is(err, entities.ErrCreateFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", entities.ErrCreateFailed, err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID), zap.Int("order", created.Order))
	return created, nil
}

// Update применяет заданные поля patch и обновляет updated_at одним условным запросом.
// Заметка другого пользователя неотличима от отсутствующей.
func (r *NoteRepository) Update(ctx context.Context, userID, noteID string, patch entities.NotePatch) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", noteID), zap.String("userID", userID))

	query, args := buildUpdateQuery(userID, noteID, patch, r.now())

	note, err := scanNote(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned by user", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFoundOrNotOwned
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entities.ErrUpdateFailed, err)
	}

	return note, nil
}

func buildUpdateQuery(userID, noteID string, patch entities.NotePatch, now time.Time) (string, []any) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 7)

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Color != nil {
		set("color", *patch.Color)
	}
	if patch.IsPinned != nil {
		set("is_pinned", *patch.IsPinned)
	}
	if patch.Order != nil {
		set("sort_order", *patch.Order)
	}
	set("updated_at", now)

	args = append(args, noteID, userID)
	query := fmt.Sprintf(`UPDATE notes SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), noteColumns)

	return query, args
}

// Delete удаляет заметку пользователя.
func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID), zap.String("userID", userID))

	result, err := r.pool.Exec(ctx, queryDeleteNote, noteID, userID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return false, fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user", zap.String("noteID", noteID))
		return false, entities.ErrNoteNotFoundOrNotOwned
	}

	return true, nil
}

// Reorder атомарно меняет order (и is_pinned, если задан) у набора заметок пользователя.
// Если хотя бы одна заметка не принадлежит пользователю, возвращается
// *entities.PartialOwnershipError и ничего не изменяется. Любая другая ошибка внутри
// транзакции возвращается как *entities.ReorderError.
func (r *NoteRepository) Reorder(ctx context.Context, userID string, items []entities.ReorderItem) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Reorder"))

	if len(items) == 0 {
		log.Debug(ctx, "nothing to reorder")
		return nil
	}

	log.Debug(ctx, "reordering notes", zap.String("userID", userID), zap.Int("count", len(items)))

	ids := entities.UniqueReorderIDs(items)
	now := r.now()

	err := dbpostgres.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		missing, err := lockOwnedNotes(ctx, tx, userID, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &entities.PartialOwnershipError{IDs: missing}
		}

		for _, item := range items {
			result, err := tx.Exec(ctx, queryReorderNote, item.Order, item.IsPinned, now, item.ID, userID)
			if err != nil {
				return fmt.Errorf("failed to update note %s: %w", item.ID, err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("failed to update note %s: %w", item.ID, entities.ErrNoteNotFoundOrNotOwned)
			}
		}
		return nil
	})

	if err == nil {
		log.Debug(ctx, "notes reordered", zap.Int("count", len(items)))
		return nil
	}

	var ownershipErr *entities.PartialOwnershipError
	if errors.As(err, &ownershipErr) {
		log.Warn(ctx, "reorder rejected: notes not owned by user", zap.Strings("noteIDs", ownershipErr.IDs))
		return ownershipErr
	}

	log.Error(ctx, "failed to reorder notes", zap.Error(err))
	return &entities.ReorderError{Cause: err}
}

// lockOwnedNotes блокирует найденные заметки пользователя и возвращает ids, которых нет среди них.
func lockOwnedNotes(ctx context.Context, tx pgx.Tx, userID string, ids []string) ([]string, error) {
	rows, err := tx.Query(ctx, queryLockOwnedNotes, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify note ownership: %w", err)
	}
	defer rows.Close()

	owned := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan note id: %w", err)
		}
		owned[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
