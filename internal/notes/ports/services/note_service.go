package services

import (
	"context"

	"threadnotes/internal/notes/domain/entities"
)

// NoteService описывает сценарии работы с заметками, доступные транспорту.
type NoteService interface {
	List(ctx context.Context, userID string) ([]*entities.Note, error)
	ListByThread(ctx context.Context, userID, threadID string) ([]*entities.Note, error)
	Get(ctx context.Context, userID, noteID string) (*entities.Note, error)
	Create(ctx context.Context, params entities.CreateNoteParams) (*entities.Note, error)
	Update(ctx context.Context, userID, noteID string, patch entities.NotePatch) (*entities.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	Reorder(ctx context.Context, userID string, items []entities.ReorderItem) error
}
