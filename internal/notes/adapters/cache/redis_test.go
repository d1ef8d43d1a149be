package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadnotes/internal/notes/adapters/cache"
	"threadnotes/internal/notes/domain/entities"
	cachePorts "threadnotes/internal/notes/ports/cache"
)

const (
	testUserID   = "user-1"
	testThreadID = "thread-1"
)

func setup(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, cachePorts.NoteListCache) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	c := cache.NewRedisNoteListCache(client, ttl)
	t.Cleanup(func() { _ = c.Close() })
	return server, c
}

func sampleNotes() []*entities.Note {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []*entities.Note{
		{ID: "n1", UserID: testUserID, ThreadID: testThreadID, Content: "pinned", Color: "red", IsPinned: true, Order: 1, CreatedAt: created, UpdatedAt: created},
		{ID: "n2", UserID: testUserID, ThreadID: testThreadID, Content: "plain", Color: entities.DefaultColor, Order: 0, CreatedAt: created, UpdatedAt: created},
	}
}

func TestRedisNoteListCache_Miss(t *testing.T) {
	_, c := setup(t, time.Minute)

	notes, found, err := c.GetList(context.Background(), testUserID, cachePorts.AllThreads)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, notes)
}

func TestRedisNoteListCache_SetAndGet(t *testing.T) {
	server, c := setup(t, time.Minute)
	ctx := context.Background()
	want := sampleNotes()

	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, want))
	require.NoError(t, c.SetList(ctx, testUserID, testThreadID, 0, want[:1]))

	got, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	thread, found, err := c.GetList(ctx, testUserID, testThreadID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want[:1], thread)

	assert.True(t, server.Exists("notes:list:"+testUserID))
	assert.Equal(t, time.Minute, server.TTL("notes:list:"+testUserID))
}

func TestRedisNoteListCache_EmptyListIsAHit(t *testing.T) {
	_, c := setup(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, []*entities.Note{}))

	got, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)
}

func TestRedisNoteListCache_Expires(t *testing.T) {
	server, c := setup(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, sampleNotes()))
	server.FastForward(2 * time.Minute)

	_, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisNoteListCache_Invalidate(t *testing.T) {
	_, c := setup(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, sampleNotes()))
	require.NoError(t, c.SetList(ctx, testUserID, testThreadID, 0, sampleNotes()))
	require.NoError(t, c.SetList(ctx, "other-user", cachePorts.AllThreads, 0, sampleNotes()))

	require.NoError(t, c.Invalidate(ctx, testUserID))

	_, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = c.GetList(ctx, testUserID, testThreadID)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.GetList(ctx, "other-user", cachePorts.AllThreads)
	require.NoError(t, err)
	assert.True(t, found, "other users must keep their cache")
}

func TestRedisNoteListCache_CorruptedValue(t *testing.T) {
	server, c := setup(t, time.Minute)
	server.HSet("notes:list:"+testUserID, "all", "{not json")

	_, found, err := c.GetList(context.Background(), testUserID, cachePorts.AllThreads)

	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), cache.ErrorFailedToDecode)
}

func TestRedisNoteListCache_ServerDown(t *testing.T) {
	server, c := setup(t, time.Minute)
	server.Close()
	ctx := context.Background()

	_, _, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToGet)

	err = c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, sampleNotes())
	require.Error(t, err)

	err = c.Invalidate(ctx, testUserID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToInvalidate)

	_, err = c.Generation(ctx, testUserID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToGeneration)
}

func TestRedisNoteListCache_GenerationBumpedByInvalidate(t *testing.T) {
	server, c := setup(t, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Invalidate(ctx, testUserID))
	require.NoError(t, c.Invalidate(ctx, testUserID))

	gen, err = c.Generation(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
	assert.Equal(t, time.Duration(0), server.TTL("notes:gen:"+testUserID))

	other, err := c.Generation(ctx, "other-user")
	require.NoError(t, err)
	assert.Equal(t, int64(0), other)
}

func TestRedisNoteListCache_StaleSetListDropped(t *testing.T) {
	server, c := setup(t, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx, testUserID)
	require.NoError(t, err)

	// список загружен до изменения, а инвалидация прошла раньше записи
	require.NoError(t, c.Invalidate(ctx, testUserID))
	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, gen, sampleNotes()))

	_, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, server.Exists("notes:list:"+testUserID))

	fresh, err := c.Generation(ctx, testUserID)
	require.NoError(t, err)
	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, fresh, sampleNotes()[:1]))

	got, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, got, 1)
}

func TestRedisNoteListCache_CorruptedGeneration(t *testing.T) {
	server, c := setup(t, time.Minute)
	require.NoError(t, server.Set("notes:gen:"+testUserID, "abc"))

	_, err := c.Generation(context.Background(), testUserID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToGeneration)
}

func TestNopNoteListCache(t *testing.T) {
	c := cache.NewNop()
	ctx := context.Background()

	gen, err := c.Generation(ctx, testUserID)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.SetList(ctx, testUserID, cachePorts.AllThreads, 0, sampleNotes()))
	_, found, err := c.GetList(ctx, testUserID, cachePorts.AllThreads)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, testUserID))
	assert.NoError(t, c.Close())
}
