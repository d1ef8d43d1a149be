package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки уровня хранилища заметок.
var (
	ErrNoteNotFoundOrNotOwned = errors.New("note not found or not owned by user")
	ErrCreateFailed           = errors.New("failed to create note")
	ErrUpdateFailed           = errors.New("failed to update note")
	ErrPartialOwnership       = errors.New("some notes not found or not owned by user")
	ErrReorderFailed          = errors.New("failed to reorder notes")
	ErrInvalidParams          = errors.New("invalid parameters")
)

// PartialOwnershipError перечисляет запрошенные id, которых нет или которые принадлежат другому пользователю.
type PartialOwnershipError struct {
	IDs []string
}

func (e *PartialOwnershipError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPartialOwnership, strings.Join(e.IDs, ", "))
}

// Is позволяет сравнивать ошибку с ErrPartialOwnership.
func (e *PartialOwnershipError) Is(target error) bool {
	return target == ErrPartialOwnership
}

// ReorderError оборачивает ошибку, прервавшую транзакцию перестановки.
type ReorderError struct {
	Cause error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("%s: %v", ErrReorderFailed, e.Cause)
}

// Is позволяет сравнивать ошибку с ErrReorderFailed.
func (e *ReorderError) Is(target error) bool {
	return target == ErrReorderFailed
}

// Unwrap возвращает исходную ошибку.
func (e *ReorderError) Unwrap() error {
	return e.Cause
}
