package entities_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadnotes/internal/notes/domain/entities"
)

func ptr[T any](v T) *T { return &v }

func TestCreateNoteParams_ColorOrDefault(t *testing.T) {
	assert.Equal(t, entities.DefaultColor, entities.CreateNoteParams{}.ColorOrDefault())
	assert.Equal(t, entities.DefaultColor, entities.CreateNoteParams{Color: "  "}.ColorOrDefault())
	assert.Equal(t, "yellow", entities.CreateNoteParams{Color: "yellow"}.ColorOrDefault())
}

func TestCreateNoteParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  entities.CreateNoteParams
		wantErr bool
	}{
		{name: "valid", params: entities.CreateNoteParams{UserID: "u", ThreadID: "t", Content: "hello"}},
		{name: "empty content is allowed", params: entities.CreateNoteParams{UserID: "u", ThreadID: "t"}},
		{name: "missing user", params: entities.CreateNoteParams{ThreadID: "t"}, wantErr: true},
		{name: "missing thread", params: entities.CreateNoteParams{UserID: "u"}, wantErr: true},
		{
			name:    "content too long",
			params:  entities.CreateNoteParams{UserID: "u", ThreadID: "t", Content: strings.Repeat("я", entities.MaxContentLength+1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrInvalidParams)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNotePatch(t *testing.T) {
	assert.True(t, entities.NotePatch{}.IsEmpty())
	assert.False(t, entities.NotePatch{Order: ptr(0)}.IsEmpty())

	require.NoError(t, entities.NotePatch{Content: ptr("x"), Color: ptr("red")}.Validate())
	require.ErrorIs(t, entities.NotePatch{Color: ptr("")}.Validate(), entities.ErrInvalidParams)
	require.ErrorIs(t,
		entities.NotePatch{Content: ptr(strings.Repeat("a", entities.MaxContentLength+1))}.Validate(),
		entities.ErrInvalidParams)

	require.NoError(t, entities.NotePatch{Order: ptr(entities.MaxOrder)}.Validate())
	require.NoError(t, entities.NotePatch{Order: ptr(entities.MinOrder)}.Validate())
	require.ErrorIs(t, entities.NotePatch{Order: ptr(entities.MaxOrder + 1)}.Validate(), entities.ErrInvalidParams)
	require.ErrorIs(t, entities.NotePatch{Order: ptr(entities.MinOrder - 1)}.Validate(), entities.ErrInvalidParams)
}

func TestReorderItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    entities.ReorderItem
		wantErr bool
	}{
		{name: "valid", item: entities.ReorderItem{ID: "a", Order: 3}},
		{name: "bounds", item: entities.ReorderItem{ID: "a", Order: entities.MinOrder}},
		{name: "blank id", item: entities.ReorderItem{ID: " ", Order: 1}, wantErr: true},
		{name: "order above int32", item: entities.ReorderItem{ID: "a", Order: entities.MaxOrder + 1}, wantErr: true},
		{name: "order below int32", item: entities.ReorderItem{ID: "a", Order: entities.MinOrder - 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrInvalidParams)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUniqueReorderIDs(t *testing.T) {
	items := []entities.ReorderItem{{ID: "b"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, []string{"b", "a", "c"}, entities.UniqueReorderIDs(items))
	assert.Empty(t, entities.UniqueReorderIDs(nil))
}

func TestPartialOwnershipError(t *testing.T) {
	var err error = &entities.PartialOwnershipError{IDs: []string{"n1", "n2"}}
	wrapped := fmt.Errorf("reorder: %w", err)

	assert.ErrorIs(t, wrapped, entities.ErrPartialOwnership)
	assert.Contains(t, err.Error(), "n1, n2")

	var target *entities.PartialOwnershipError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, []string{"n1", "n2"}, target.IDs)
}

func TestReorderError(t *testing.T) {
	cause := errors.New("deadlock detected")
	var err error = &entities.ReorderError{Cause: cause}

	assert.ErrorIs(t, err, entities.ErrReorderFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, entities.ErrPartialOwnership)
	assert.Contains(t, err.Error(), "deadlock detected")
}
