// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

import (
	"time"

	"threadnotes/internal/notes/domain/entities"
)

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
	Content  string `json:"content" validate:"max=10000"`
	Color    string `json:"color"`
	IsPinned bool   `json:"is_pinned"`
}

// ToParams переводит запрос в параметры создания для пользователя.
func (r *CreateNoteRequest) ToParams(userID string) entities.CreateNoteParams {
	return entities.CreateNoteParams{
		UserID:   userID,
		ThreadID: r.ThreadID,
		Content:  r.Content,
		Color:    r.Color,
		IsPinned: r.IsPinned,
	}
}

// UpdateNoteRequest содержит изменяемые поля. Отсутствующие поля не меняются.
type UpdateNoteRequest struct {
	Content  *string `json:"content" validate:"omitnil,max=10000"`
	Color    *string `json:"color" validate:"omitnil,min=1"`
	IsPinned *bool   `json:"is_pinned"`
	Order    *int    `json:"order" validate:"omitnil,min=-2147483648,max=2147483647"`
}

// ToPatch переводит запрос в доменный патч.
func (r *UpdateNoteRequest) ToPatch() entities.NotePatch {
	return entities.NotePatch{
		Content:  r.Content,
		Color:    r.Color,
		IsPinned: r.IsPinned,
		Order:    r.Order,
	}
}

// ReorderItem задает позицию одной заметки.
type ReorderItem struct {
	ID       string `json:"id" validate:"required"`
	Order    int    `json:"order" validate:"min=-2147483648,max=2147483647"`
	IsPinned *bool  `json:"is_pinned"`
}

// ReorderRequest содержит новый порядок заметок.
type ReorderRequest struct {
	Items []ReorderItem `json:"items" validate:"dive"`
}

// ToItems переводит запрос в доменные элементы.
func (r *ReorderRequest) ToItems() []entities.ReorderItem {
	items := make([]entities.ReorderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, entities.ReorderItem{ID: item.ID, Order: item.Order, IsPinned: item.IsPinned})
	}
	return items
}

// Note представляет заметку.
type Note struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	IsPinned  bool      `json:"is_pinned"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteResponse содержит информацию о заметке для ответа.
type NoteResponse struct {
	Note *Note `json:"note"`
}

// ListNotesResponse содержит список заметок.
type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

// ErrorResponse описывает ошибку. IDs заполняется для заметок, не принадлежащих пользователю.
type ErrorResponse struct {
	Error string   `json:"error"`
	IDs   []string `json:"ids,omitempty"`
}

// FromEntity строит DTO заметки.
func FromEntity(note *entities.Note) *Note {
	return &Note{
		ID:        note.ID,
		ThreadID:  note.ThreadID,
		Content:   note.Content,
		Color:     note.Color,
		IsPinned:  note.IsPinned,
		Order:     note.Order,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// FromEntities строит список DTO, пустой список не равен nil.
func FromEntities(notes []*entities.Note) *ListNotesResponse {
	result := make([]*Note, 0, len(notes))
	for _, note := range notes {
		result = append(result, FromEntity(note))
	}
	return &ListNotesResponse{Notes: result}
}
