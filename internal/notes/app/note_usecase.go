// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"threadnotes/internal/notes/domain/entities"
	"threadnotes/internal/notes/ports/cache"
	"threadnotes/internal/notes/ports/repositories"
	"threadnotes/pkg/logger"
)

const msgCacheFailed = "note list cache operation failed"

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	store repositories.NoteStore
	cache cache.NoteListCache
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(store repositories.NoteStore, listCache cache.NoteListCache) *NoteUseCase {
	return &NoteUseCase{
		store: store,
		cache: listCache,
	}
}

// List возвращает все заметки пользователя.
func (uc *NoteUseCase) List(ctx context.Context, userID string) ([]*entities.Note, error) {
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}
	return uc.cachedList(ctx, userID, cache.AllThreads, func() ([]*entities.Note, error) {
		return uc.store.List(ctx, userID)
	})
}

// ListByThread возвращает заметки пользователя внутри треда.
func (uc *NoteUseCase) ListByThread(ctx context.Context, userID, threadID string) ([]*entities.Note, error) {
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}
	if err := requireID("thread id", threadID); err != nil {
		return nil, err
	}
	return uc.cachedList(ctx, userID, threadID, func() ([]*entities.Note, error) {
		return uc.store.ListByThread(ctx, userID, threadID)
	})
}

// Get возвращает заметку пользователя.
func (uc *NoteUseCase) Get(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	if err := requireIDs(userID, noteID); err != nil {
		return nil, err
	}
	note, err := uc.store.Get(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// Create создает заметку в конце списка пользователя.
func (uc *NoteUseCase) Create(ctx context.Context, params entities.CreateNoteParams) (*entities.Note, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	note, err := uc.store.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, params.UserID)
	return note, nil
}

// Update применяет частичное изменение к заметке.
func (uc *NoteUseCase) Update(ctx context.Context, userID, noteID string, patch entities.NotePatch) (*entities.Note, error) {
	if err := requireIDs(userID, noteID); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	note, err := uc.store.Update(ctx, userID, noteID, patch)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, userID)
	return note, nil
}

// Delete удаляет заметку пользователя.
func (uc *NoteUseCase) Delete(ctx context.Context, userID, noteID string) error {
	if err := requireIDs(userID, noteID); err != nil {
		return err
	}
	if _, err := uc.store.Delete(ctx, userID, noteID); err != nil {
		return err
	}
	uc.invalidate(ctx, userID)
	return nil
}

// Reorder атомарно переставляет заметки пользователя.
func (uc *NoteUseCase) Reorder(ctx context.Context, userID string, items []entities.ReorderItem) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return nil
	}
	if err := uc.store.Reorder(ctx, userID, items); err != nil {
		return err
	}
	uc.invalidate(ctx, userID)
	return nil
}

func (uc *NoteUseCase) cachedList(
	ctx context.Context,
	userID, threadID string,
	load func() ([]*entities.Note, error),
) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("userID", userID), zap.String("threadID", threadID))

	cached, found, err := uc.cache.GetList(ctx, userID, threadID)
	if err != nil {
		log.Warn(ctx, msgCacheFailed, zap.Error(err))
	}
	if found {
		return cached, nil
	}

	// Поколение читается до загрузки: инвалидация во время load отменит запись в кэш.
	generation, genErr := uc.cache.Generation(ctx, userID)
	if genErr != nil {
		log.Warn(ctx, msgCacheFailed, zap.Error(genErr))
	}

	notes, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	if genErr == nil {
		if err := uc.cache.SetList(ctx, userID, threadID, generation, notes); err != nil {
			log.Warn(ctx, msgCacheFailed, zap.Error(err))
		}
	}
	return notes, nil
}

func (uc *NoteUseCase) invalidate(ctx context.Context, userID string) {
	if err := uc.cache.Invalidate(ctx, userID); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheFailed, zap.String("userID", userID), zap.Error(err))
	}
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", entities.ErrInvalidParams, name)
	}
	return nil
}

func requireIDs(userID, noteID string) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	return requireID("note id", noteID)
}
