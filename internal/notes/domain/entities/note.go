// Package entities defines the domain entities for the notes service.
package entities

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultColor используется, если цвет заметки не задан.
const DefaultColor = "default"

// MaxContentLength ограничивает длину текста заметки в символах.
const MaxContentLength = 10000

// Границы порядка совпадают с колонкой sort_order INTEGER.
const (
	MinOrder = math.MinInt32
	MaxOrder = math.MaxInt32
)

// Note представляет собой заметку пользователя внутри треда.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ThreadID  string    `json:"thread_id"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	IsPinned  bool      `json:"is_pinned"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateNoteParams содержит данные для создания заметки.
type CreateNoteParams struct {
	UserID   string
	ThreadID string
	Content  string
	Color    string
	IsPinned bool
}

// ColorOrDefault возвращает цвет или DefaultColor для пустого значения.
func (p CreateNoteParams) ColorOrDefault() string {
	if strings.TrimSpace(p.Color) == "" {
		return DefaultColor
	}
	return p.Color
}

// Validate проверяет параметры создания.
func (p CreateNoteParams) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.ThreadID) == "" {
		return fmt.Errorf("%w: thread id is required", ErrInvalidParams)
	}
	return validateContent(p.Content)
}

// NotePatch описывает частичное изменение заметки. Nil-поля не меняются.
type NotePatch struct {
	Content  *string `json:"content,omitempty"`
	Color    *string `json:"color,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

// IsEmpty сообщает, что ни одно поле не задано.
func (p NotePatch) IsEmpty() bool {
	return p.Content == nil && p.Color == nil && p.IsPinned == nil && p.Order == nil
}

// Validate проверяет заданные поля.
func (p NotePatch) Validate() error {
	if p.Content != nil {
		if err := validateContent(*p.Content); err != nil {
			return err
		}
	}
	if p.Color != nil && strings.TrimSpace(*p.Color) == "" {
		return fmt.Errorf("%w: color must not be empty", ErrInvalidParams)
	}
	if p.Order != nil {
		return validateOrder(*p.Order)
	}
	return nil
}

// ReorderItem задает новую позицию заметки и, опционально, признак закрепления.
type ReorderItem struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	IsPinned *bool  `json:"is_pinned,omitempty"`
}

// Validate проверяет id и диапазон позиции.
func (i ReorderItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: reorder item without id", ErrInvalidParams)
	}
	return validateOrder(i.Order)
}

// UniqueReorderIDs возвращает различные id элементов в порядке первого появления.
func UniqueReorderIDs(items []ReorderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}
	return ids
}

func validateContent(content string) error {
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidParams, MaxContentLength)
	}
	return nil
}

func validateOrder(order int) error {
	if order < MinOrder || order > MaxOrder {
		return fmt.Errorf("%w: order %d is out of range [%d, %d]", ErrInvalidParams, order, MinOrder, MaxOrder)
	}
	return nil
}
