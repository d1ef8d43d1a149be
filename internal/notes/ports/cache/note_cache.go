// Package cache defines the cache port of the notes service.
package cache

import (
	"context"

	"threadnotes/internal/notes/domain/entities"
)

// AllThreads - пустой threadID, обозначающий список всех заметок пользователя.
const AllThreads = ""

// NoteListCache кэширует отсортированные списки заметок пользователя.
// GetList возвращает found=false при промахе.
//
// Generation читается до загрузки списка из хранилища и передается в SetList.
// Invalidate увеличивает поколение, поэтому список, загруженный до изменения,
// не попадает в кэш после него.
type NoteListCache interface {
	GetList(ctx context.Context, userID, threadID string) (notes []*entities.Note, found bool, err error)
	Generation(ctx context.Context, userID string) (int64, error)
	SetList(ctx context.Context, userID, threadID string, generation int64, notes []*entities.Note) error
	Invalidate(ctx context.Context, userID string) error
	Close() error
}
